package pipeline

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"quizbank/internal"
	"quizbank/internal/util"
)

var reAnswerNumber = regexp.MustCompile(`\d+\.`)

// ParseAnswers turns an answer section into answer tokens in document order.
// Tokens may carry their own item numbers ("#1.AB", "2.CD") or be bare
// ("AB CD T"); both forms yield the same tokens, with or without spaces
// between numbered answers.
func ParseAnswers(span, marker string, t internal.QuestionType) []string {
	span = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(span)
	span = strings.TrimSpace(span)
	if span == "" {
		return []string{}
	}

	if marker != "" {
		// text ahead of the first item is a heading, not an answer
		if i := strings.Index(span, marker); i >= 0 {
			span = strings.ReplaceAll(span[i:], marker, " ")
		}
	}

	out := []string{}
	for _, field := range strings.Fields(span) {
		// "1.A2.B3.C" carries several answers in one field
		for _, token := range reAnswerNumber.Split(field, -1) {
			if token == "" {
				continue
			}
			out = append(out, normalizeAnswer(token, t))
		}
	}
	return out
}

func normalizeAnswer(token string, t internal.QuestionType) string {
	token = strings.ToUpper(token)
	if !t.IsChoice() {
		if token != "T" && token != "F" {
			zap.L().Warn("unexpected judgment answer", zap.String("token", token))
		}
		return token
	}

	if !util.IsLetterSet(token) {
		zap.L().Warn("unexpected choice answer", zap.String("token", token))
		return token
	}
	return util.SortLetters(token)
}
