package quiz

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"quizbank/internal"
	"quizbank/internal/util"
)

// Relabel pairs the label shown to the user with the option it stands for.
// Relabels are kept in label order; position i carries label 'A'+i.
type Relabel struct {
	Label  rune
	Option string
}

type Question struct {
	internal.QuestionRecord
	Relabels     []Relabel
	VisualAnswer string
}

// NewQuestion prepares a record for serving. Choice options are shuffled
// and relabeled from A; the answer shown after a wrong attempt uses the new
// labels.
func NewQuestion(rec internal.QuestionRecord, visualID int, rng *rand.Rand) *Question {
	rec.ID = visualID
	q := &Question{QuestionRecord: rec}
	if !rec.Type.IsChoice() {
		q.VisualAnswer = rec.Answer
		return q
	}

	options := append([]string(nil), rec.Options...)
	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	var visual []rune
	for i, opt := range options {
		label := rune('A' + i)
		q.Relabels = append(q.Relabels, Relabel{Label: label, Option: opt})
		if strings.ContainsRune(rec.Answer, optionTag(opt)) {
			visual = append(visual, label)
		}
	}
	q.VisualAnswer = util.SortLetters(string(visual))
	return q
}

func (q *Question) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s (%s)\n", q.ID, strings.TrimSpace(q.Content), q.Type.Label())
	for _, r := range q.Relabels {
		fmt.Fprintf(&b, "%c. %s\n", r.Label, optionText(r.Option))
	}
	return b.String()
}

// Check scores a raw user answer. It returns the answer as the user gave
// it (sorted, upper-cased) and whether it matches the record.
func (q *Question) Check(input string) (string, bool) {
	input = strings.ToUpper(util.StripSpaces(input))
	if input == "" {
		return "", false
	}

	if !q.Type.IsChoice() {
		first := string([]rune(input)[0])
		return first, first == q.Answer
	}

	direct := util.SortLetters(input)
	original := make([]rune, 0, len(input))
	for _, label := range input {
		idx := int(label - 'A')
		if idx < 0 || idx >= len(q.Relabels) {
			return direct, false
		}
		original = append(original, optionTag(q.Relabels[idx].Option))
	}
	return direct, util.SortLetters(string(original)) == q.Answer
}

func optionTag(option string) rune {
	for _, r := range option {
		return r
	}
	return 0
}

func optionText(option string) string {
	runes := []rune(option)
	if len(runes) >= 2 && runes[0] >= 'A' && runes[0] <= 'Z' && (runes[1] == '.' || runes[1] == '、') {
		runes = runes[2:]
	}
	return strings.TrimSpace(string(runes))
}
