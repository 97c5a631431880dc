package pipeline

import (
	"regexp"
	"strings"

	"quizbank/internal/config"
)

var (
	reIdeographicComma = regexp.MustCompile(`([\p{L}\p{N}])、([^\p{L}\p{N}])`)
	reLineItemNumber   = regexp.MustCompile(`(?m)^(\d+\.)`)
)

// Normalizer turns the pages of one document into a single scanning surface:
// no page-number tails, canonical punctuation, a marker before every item
// number and no line breaks.
type Normalizer struct {
	Replacements []config.Replacement
	Marker       string
	Sentinel     string
}

func NewNormalizer(doc config.DocumentProfile, profile config.Profile) Normalizer {
	return Normalizer{
		Replacements: doc.Replacements,
		Marker:       profile.Marker,
		Sentinel:     profile.Sentinel(),
	}
}

func (n Normalizer) Normalize(pages []string) string {
	if len(pages) == 0 {
		return ""
	}

	stripped := make([]string, 0, len(pages))
	for _, page := range pages {
		stripped = append(stripped, stripPageNumber(page))
	}
	text := strings.Join(stripped, "\n")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	for _, r := range n.Replacements {
		if r.From == "" {
			continue
		}
		text = strings.ReplaceAll(text, r.From, r.To)
	}

	text = reIdeographicComma.ReplaceAllString(text, "$1.$2")
	text = reLineItemNumber.ReplaceAllString(text, strings.ReplaceAll(n.Marker, "$", "$$")+"$1")

	text = strings.NewReplacer("\r", "", "\n", "").Replace(text)
	return text + n.Sentinel
}

func stripPageNumber(page string) string {
	end := len(page)
	for end > 0 && page[end-1] >= '0' && page[end-1] <= '9' {
		end--
	}
	return page[:end]
}
