package pipeline

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"quizbank/internal"
	"quizbank/internal/config"
)

var (
	ErrAnchorNotFound = eris.New("no matching content")

	defaultChapterPattern = regexp.MustCompile(`第\s*\d+\s*讲`)
)

type SectionSpan struct {
	Type internal.QuestionType
	Text string
}

// Slicer cuts the typed sections out of a normalized document.
type Slicer struct {
	chapter  *regexp.Regexp
	subtitle *regexp.Regexp
}

func NewSlicer(profile config.Profile) (*Slicer, error) {
	chapter := defaultChapterPattern
	if profile.ChapterPattern != "" {
		re, err := regexp.Compile(profile.ChapterPattern)
		if err != nil {
			return nil, eris.Wrap(err, "slicer: chapter pattern")
		}
		chapter = re
	}
	return &Slicer{
		chapter:  chapter,
		subtitle: regexp.MustCompile(regexp.QuoteMeta(profile.Marker) + `\d+\.\d+[^()（）]*$`),
	}, nil
}

// Section extracts the span for one section rule.
func (s *Slicer) Section(rule config.SectionRule, text string) (SectionSpan, error) {
	body, err := s.ExtractSection(rule.Keyword, rule.Until, text)
	if err != nil {
		return SectionSpan{}, eris.Wrapf(err, "section %s", rule.Type)
	}
	return SectionSpan{Type: rule.Type, Text: body}, nil
}

// ExtractSection captures everything between keyword and the nearest of the
// until keywords. A document repeats its sections once per chapter, so every
// occurrence is captured, cleaned and joined in document order.
func (s *Slicer) ExtractSection(keyword string, until []string, text string) (string, error) {
	if keyword == "" || len(until) == 0 {
		return "", eris.Wrap(ErrAnchorNotFound, "empty section keywords")
	}

	alternatives := make([]string, 0, len(until))
	for _, u := range until {
		alternatives = append(alternatives, regexp.QuoteMeta(u))
	}
	re, err := regexp.Compile(`(?s)` + regexp.QuoteMeta(keyword) + `(.*?)(?:` + strings.Join(alternatives, "|") + `)`)
	if err != nil {
		return "", eris.Wrap(err, "slicer: section pattern")
	}

	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		zap.L().Warn("section anchor not found", zap.String("keyword", keyword), zap.Strings("until", until))
		return "", eris.Wrapf(ErrAnchorNotFound, "keyword %q", keyword)
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, strings.TrimSpace(s.trimTail(m[1])))
	}
	return strings.Join(parts, "\n"), nil
}

// trimTail drops chapter headings and sub-section titles that bled into the
// end of a captured section.
func (s *Slicer) trimTail(span string) string {
	if loc := s.chapter.FindStringIndex(span); loc != nil {
		return span[:loc[0]]
	}
	if loc := s.subtitle.FindStringIndex(span); loc != nil {
		return span[:loc[0]]
	}
	return span
}
