package internal

import "time"

type QuestionType string

const (
	TypeSingle QuestionType = "single"
	TypeMulti  QuestionType = "multi"
	TypeJudge  QuestionType = "judge"
)

// QuestionTypes lists the types in the order the quiz pool concatenates them.
var QuestionTypes = []QuestionType{TypeSingle, TypeMulti, TypeJudge}

func (t QuestionType) IsChoice() bool {
	return t == TypeSingle || t == TypeMulti
}

func (t QuestionType) Label() string {
	switch t {
	case TypeSingle:
		return "单项选择题"
	case TypeMulti:
		return "多项选择题"
	case TypeJudge:
		return "判断题"
	default:
		return string(t)
	}
}

func ParseQuestionType(value string) (QuestionType, bool) {
	switch QuestionType(value) {
	case TypeSingle, TypeMulti, TypeJudge:
		return QuestionType(value), true
	default:
		return "", false
	}
}

type QuestionRecord struct {
	ID      int          `json:"-"`
	Content string       `json:"content"`
	Options []string     `json:"options"`
	Answer  string       `json:"answer"`
	Type    QuestionType `json:"type"`
}

type DecomposedItem struct {
	Position  int
	Stem      string
	Options   []string
	Malformed bool
}

type ExtractionRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Question   string
	Answer     string
	Counts     map[QuestionType]int
	Failures   map[QuestionType]string
}

func (r ExtractionRun) Status() string {
	if len(r.Failures) == 0 {
		return "ok"
	}
	if len(r.Counts) == 0 {
		return "failed"
	}
	return "partial"
}
