package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"quizbank/internal"
)

// Replacement is one literal substitution applied during normalization.
// Tables are ordered lists because later entries may depend on earlier ones.
type Replacement struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type DocumentProfile struct {
	Path         string        `yaml:"path"`
	Replacements []Replacement `yaml:"replacements"`
}

// SectionRule locates one question-type region: everything between Keyword
// and the nearest of Until.
type SectionRule struct {
	Type    internal.QuestionType `yaml:"type"`
	Keyword string                `yaml:"keyword"`
	Until   []string              `yaml:"until"`
}

type Profile struct {
	Question DocumentProfile `yaml:"question"`
	Answer   DocumentProfile `yaml:"answer"`

	Marker         string        `yaml:"marker"`
	Sections       []SectionRule `yaml:"sections"`
	ChapterPattern string        `yaml:"chapter_pattern"`

	HTMLPageSelector string `yaml:"html_page_selector"`
}

var punctuation = []Replacement{
	{From: "．", To: "."},
	{From: ". ", To: "."},
	{From: "（", To: "("},
	{From: "）", To: ")"},
}

func DefaultProfile() Profile {
	answer := append([]Replacement{}, punctuation...)
	answer = append(answer,
		Replacement{From: "√", To: "T"},
		Replacement{From: "✓", To: "T"},
		Replacement{From: "×", To: "F"},
		Replacement{From: "✗", To: "F"},
	)

	return Profile{
		Question: DocumentProfile{
			Path:         filepath.Join("data", "保密知识概论（第二版）练习题2024.pdf"),
			Replacements: append([]Replacement{}, punctuation...),
		},
		Answer: DocumentProfile{
			Path:         filepath.Join("data", "保密知识概论（第二版）练习题答案2024.pdf"),
			Replacements: answer,
		},
		Marker: "#",
		Sections: []SectionRule{
			{Type: internal.TypeMulti, Keyword: "多项选择题", Until: []string{"单项选择题", "判断题"}},
			{Type: internal.TypeSingle, Keyword: "单项选择题", Until: []string{"判断题", "多项选择题"}},
			{Type: internal.TypeJudge, Keyword: "判断题", Until: []string{"多项选择题", "单项选择题", "判断题"}},
		},
		ChapterPattern:   `第\s*\d+\s*讲`,
		HTMLPageSelector: ".page",
	}
}

// LoadProfile reads a YAML profile over the defaults. Relative document
// paths are resolved against the profile's directory.
func LoadProfile(path string) (Profile, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, eris.Wrapf(err, "config: read profile %s", path)
	}

	profile := DefaultProfile()
	if err := yaml.Unmarshal(blob, &profile); err != nil {
		return Profile{}, eris.Wrapf(err, "config: parse profile %s", path)
	}

	base := filepath.Dir(path)
	for _, doc := range []*DocumentProfile{&profile.Question, &profile.Answer} {
		if doc.Path != "" && !filepath.IsAbs(doc.Path) {
			doc.Path = filepath.Join(base, doc.Path)
		}
	}

	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Marker) == "" {
		return eris.New("config: profile marker is empty")
	}
	seen := map[internal.QuestionType]bool{}
	for _, rule := range p.Sections {
		if _, ok := internal.ParseQuestionType(string(rule.Type)); !ok {
			return eris.Errorf("config: unknown section type %q", rule.Type)
		}
		if seen[rule.Type] {
			return eris.Errorf("config: duplicate section rule for %s", rule.Type)
		}
		seen[rule.Type] = true
		if strings.TrimSpace(rule.Keyword) == "" || len(rule.Until) == 0 {
			return eris.Errorf("config: section %s needs a keyword and at least one until keyword", rule.Type)
		}
	}
	for _, t := range internal.QuestionTypes {
		if !seen[t] {
			return eris.Errorf("config: missing section rule for %s", t)
		}
	}
	return nil
}

func (p Profile) Section(t internal.QuestionType) (SectionRule, bool) {
	for _, rule := range p.Sections {
		if rule.Type == t {
			return rule, true
		}
	}
	return SectionRule{}, false
}

// Sentinel is appended to every normalized document so the last section
// always has a terminating keyword.
func (p Profile) Sentinel() string {
	rule, _ := p.Section(internal.TypeJudge)
	return rule.Keyword
}
