package pipeline

import (
	"testing"

	"quizbank/internal/config"
)

func TestNormalize(t *testing.T) {
	p := config.DefaultProfile()
	n := NewNormalizer(p.Question, p)

	pages := []string{
		"多项选择题\n1．保密范围包括( )\nA．国家秘密 B．工作秘密\n3",
		"2．保密义务人是（ ）\nA．公民 B．组织\n4",
	}
	got := n.Normalize(pages)
	want := "多项选择题#1.保密范围包括( )A.国家秘密 B.工作秘密#2.保密义务人是( )A.公民 B.组织判断题"
	if got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
}

func TestNormalizeSteps(t *testing.T) {
	n := Normalizer{Marker: "#"}

	cases := []struct {
		name  string
		pages []string
		want  string
	}{
		{name: "empty", pages: nil, want: ""},
		{name: "page number tail", pages: []string{"题目\n128"}, want: "题目"},
		{name: "ideographic comma", pages: []string{"1、(略)\nA、 x"}, want: "#1.(略)A. x"},
		{name: "comma before letter kept", pages: []string{"甲、乙"}, want: "甲、乙"},
		{name: "mid-line number not marked", pages: []string{"共 3.5 分"}, want: "共 3.5 分"},
		{name: "crlf", pages: []string{"1.a\r\n2.b"}, want: "#1.a#2.b"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Normalize(tc.pages); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeReplacementOrder(t *testing.T) {
	n := Normalizer{
		Marker: "#",
		Replacements: []config.Replacement{
			{From: "．", To: ". "},
			{From: ". ", To: "."},
		},
	}
	if got := n.Normalize([]string{"1．题"}); got != "#1.题" {
		t.Fatalf("got %q", got)
	}
}

func TestStripPageNumber(t *testing.T) {
	if got := stripPageNumber("A.x B.y 2024"); got != "A.x B.y " {
		t.Fatalf("got %q", got)
	}
	if got := stripPageNumber("123"); got != "" {
		t.Fatalf("got %q", got)
	}
}
