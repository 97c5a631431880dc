package pipeline

import (
	"github.com/rotisserie/eris"

	"quizbank/internal"
)

var ErrCountMismatch = eris.New("question and answer counts differ")

// Assemble zips decomposed items with answer tokens by position. A count
// mismatch returns no records at all.
func Assemble(items []internal.DecomposedItem, answers []string, t internal.QuestionType) ([]internal.QuestionRecord, error) {
	if len(items) != len(answers) {
		return nil, eris.Wrapf(ErrCountMismatch, "%s: %d questions, %d answers", t, len(items), len(answers))
	}

	out := make([]internal.QuestionRecord, 0, len(items))
	for i, item := range items {
		options := item.Options
		if options == nil {
			options = []string{}
		}
		out = append(out, internal.QuestionRecord{
			Content: item.Stem,
			Options: options,
			Answer:  answers[i],
			Type:    t,
		})
	}
	return out, nil
}
