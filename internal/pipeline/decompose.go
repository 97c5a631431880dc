package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"quizbank/internal"
)

// Decompose separates a choice item into its stem and lettered options.
//
// Option tags are an uppercase letter followed by '.', taken in sequence
// from "A.", so letters inside option text ("optA", "DNA") never open a new
// option. The stem is everything before the "A." tag and keeps its trailing
// whitespace.
func Decompose(item, marker string) internal.DecomposedItem {
	body := StripItemNumber(item, marker)

	tags := optionTagOffsets(body)
	if len(tags) == 0 {
		return internal.DecomposedItem{Stem: body, Options: []string{}, Malformed: true}
	}

	options := make([]string, 0, len(tags))
	for i, start := range tags {
		end := len(body)
		if i+1 < len(tags) {
			end = tags[i+1]
		}
		options = append(options, strings.TrimSpace(body[start:end]))
	}
	return internal.DecomposedItem{Stem: body[:tags[0]], Options: options}
}

// JudgeItem builds the record body for a judgment item, which has no options.
func JudgeItem(item, marker string) internal.DecomposedItem {
	return internal.DecomposedItem{Stem: strings.TrimSpace(StripItemNumber(item, marker)), Options: []string{}}
}

func optionTagOffsets(body string) []int {
	var offsets []int
	from := 0
	for letter := 'A'; letter <= 'Z'; letter++ {
		idx := strings.Index(body[from:], string(letter)+".")
		if idx < 0 {
			break
		}
		offsets = append(offsets, from+idx)
		from += idx + 2
	}
	return offsets
}

// DecomposeItems runs Decompose over a section's items, keeping positions.
func DecomposeItems(items []string, t internal.QuestionType, marker string) []internal.DecomposedItem {
	out := make([]internal.DecomposedItem, 0, len(items))
	for i, item := range items {
		var d internal.DecomposedItem
		if t.IsChoice() {
			d = Decompose(item, marker)
		} else {
			d = JudgeItem(item, marker)
		}
		d.Position = i + 1
		if d.Malformed {
			zap.L().Warn("choice item without options",
				zap.String("type", string(t)),
				zap.Int("position", d.Position),
				zap.String("item", item),
			)
		}
		out = append(out, d)
	}
	return out
}
