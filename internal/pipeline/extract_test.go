package pipeline

import (
	"testing"

	"github.com/rotisserie/eris"

	"quizbank/internal"
	"quizbank/internal/config"
)

func newTestSlicer(t *testing.T) *Slicer {
	t.Helper()
	s, err := NewSlicer(config.DefaultProfile())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestExtractSectionTruncatesChapter(t *testing.T) {
	s := newTestSlicer(t)
	text := "单项选择题#1.Q1？A.a1 B.a2\n第3讲 抬头\n多项选择题..."

	got, err := s.ExtractSection("单项选择题", []string{"多项选择题"}, text)
	if err != nil {
		t.Fatal(err)
	}
	if got != "#1.Q1？A.a1 B.a2" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractSectionTruncatesSubtitle(t *testing.T) {
	s := newTestSlicer(t)
	text := "单项选择题#1.Q5？A.a B.b#1.6保密要点判断题"

	got, err := s.ExtractSection("单项选择题", []string{"判断题"}, text)
	if err != nil {
		t.Fatal(err)
	}
	if got != "#1.Q5？A.a B.b" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractSectionKeepsItemWithParentheses(t *testing.T) {
	s := newTestSlicer(t)
	text := "判断题#1.保密是义务。( )#2.3项规定适用于( )多项选择题"

	got, err := s.ExtractSection("判断题", []string{"多项选择题"}, text)
	if err != nil {
		t.Fatal(err)
	}
	if got != "#1.保密是义务。( )#2.3项规定适用于( )" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractSectionNearestTerminator(t *testing.T) {
	s := newTestSlicer(t)
	text := "多项选择题#1.甲A.x B.y判断题#1.乙单项选择题#1.丙A.x B.y判断题"

	got, err := s.ExtractSection("多项选择题", []string{"单项选择题", "判断题"}, text)
	if err != nil {
		t.Fatal(err)
	}
	if got != "#1.甲A.x B.y" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractSectionJoinsChapters(t *testing.T) {
	s := newTestSlicer(t)
	text := "第1讲 总论多项选择题#1.一A.x B.y单项选择题#1.二A.x B.y判断题#1.三( )" +
		"第2讲 分论多项选择题#1.四A.x B.y单项选择题#1.五A.x B.y判断题#1.六( )判断题"

	rule, _ := config.DefaultProfile().Section(internal.TypeJudge)
	span, err := s.Section(rule, text)
	if err != nil {
		t.Fatal(err)
	}
	if span.Type != internal.TypeJudge {
		t.Fatalf("type=%s", span.Type)
	}
	if span.Text != "#1.三( )\n#1.六( )" {
		t.Fatalf("got %q", span.Text)
	}
}

func TestExtractSectionAnchorNotFound(t *testing.T) {
	s := newTestSlicer(t)

	_, err := s.ExtractSection("单项选择题", []string{"判断题"}, "多项选择题#1.x判断题")
	if !eris.Is(err, ErrAnchorNotFound) {
		t.Fatalf("err=%v", err)
	}

	rule, _ := config.DefaultProfile().Section(internal.TypeSingle)
	if _, err := s.Section(rule, ""); !eris.Is(err, ErrAnchorNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestNewSlicerBadChapterPattern(t *testing.T) {
	p := config.DefaultProfile()
	p.ChapterPattern = "第(("
	if _, err := NewSlicer(p); err == nil {
		t.Fatal("expected error")
	}
}

func TestExtractSectionJudgeBeforeSingle(t *testing.T) {
	s := newTestSlicer(t)
	p := config.DefaultProfile()
	text := "判断题#1.j( )单项选择题#1.s( )A.x B.y多项选择题#1.m A.x B.y判断题"

	judge, _ := p.Section(internal.TypeJudge)
	span, err := s.Section(judge, text)
	if err != nil {
		t.Fatal(err)
	}
	if span.Text != "#1.j( )" {
		t.Fatalf("judge span %q", span.Text)
	}

	single, _ := p.Section(internal.TypeSingle)
	span, err = s.Section(single, text)
	if err != nil {
		t.Fatal(err)
	}
	if span.Text != "#1.s( )A.x B.y" {
		t.Fatalf("single span %q", span.Text)
	}
}
