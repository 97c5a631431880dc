package pipeline

import (
	"reflect"
	"testing"

	"github.com/rotisserie/eris"

	"quizbank/internal"
)

func TestParseAnswers(t *testing.T) {
	cases := []struct {
		name string
		span string
		typ  internal.QuestionType
		want []string
	}{
		{name: "bare tokens", span: "AB CD T", typ: internal.TypeMulti, want: []string{"AB", "CD", "T"}},
		{name: "line breaks", span: " AB\nCD\r\n\nT ", typ: internal.TypeMulti, want: []string{"AB", "CD", "T"}},
		{name: "numbered items", span: "#1.DB #2.ACD#3.b", typ: internal.TypeMulti, want: []string{"BD", "ACD", "B"}},
		{name: "inline numbers", span: "#1.A 2.C 3.B", typ: internal.TypeSingle, want: []string{"A", "C", "B"}},
		{name: "judgment", span: "#1.T#2.F\n#3.T", typ: internal.TypeJudge, want: []string{"T", "F", "T"}},
		{name: "numbers without spaces", span: "1.A2.B3.C", typ: internal.TypeSingle, want: []string{"A", "B", "C"}},
		{name: "marked without spaces", span: "#1.AB#2.c12.DA", typ: internal.TypeMulti, want: []string{"AB", "C", "AD"}},
		{name: "heading before first item", span: "答案#1.T 2.F", typ: internal.TypeJudge, want: []string{"T", "F"}},
		{name: "empty", span: "  \n", typ: internal.TypeSingle, want: []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseAnswers(tc.span, "#", tc.typ)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestAssemble(t *testing.T) {
	items := []internal.DecomposedItem{
		{Position: 1, Stem: "甲", Options: []string{"A.x", "B.y"}},
		{Position: 2, Stem: "乙", Options: []string{"A.x", "B.y", "C.z"}},
		{Position: 3, Stem: "丙"},
	}
	answers := ParseAnswers("AB CD T", "#", internal.TypeMulti)

	records, err := Assemble(items, answers, internal.TypeMulti)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("len=%d", len(records))
	}
	if records[1].Content != "乙" || records[1].Answer != "CD" || records[1].Type != internal.TypeMulti {
		t.Fatalf("record=%+v", records[1])
	}
	if records[2].Options == nil {
		t.Fatal("options must encode as an empty list")
	}
}

func TestAssembleCountMismatch(t *testing.T) {
	items := []internal.DecomposedItem{{Stem: "甲"}, {Stem: "乙"}, {Stem: "丙"}}

	pairs := [][]string{
		ParseAnswers("AB CD", "#", internal.TypeMulti),
		{},
		{"A", "B", "C", "D"},
	}
	for _, answers := range pairs {
		records, err := Assemble(items, answers, internal.TypeMulti)
		if !eris.Is(err, ErrCountMismatch) {
			t.Fatalf("answers=%q err=%v", answers, err)
		}
		if records != nil {
			t.Fatalf("partial result %+v", records)
		}
	}
}
