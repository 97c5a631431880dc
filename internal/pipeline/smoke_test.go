package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rotisserie/eris"

	"quizbank/internal"
	"quizbank/internal/config"
	"quizbank/internal/source"
	"quizbank/internal/storage"
)

const questionDoc = `第1讲 保密概论
1.1 基本概念
多项选择题
1．保密工作的原则包括（ ）
A．最小化 B．全程化
C．精准化
2、 国家秘密的密级分为( )
A.绝密 B.机密 C.秘密
1.2 保密要点
单项选择题
1.保密法于( )施行。
A.1989年 B.2010年
判断题
1.保密是每个公民的义务。( )
2.国家秘密可以随意公开。( )
1` + "\f" + `第2讲 保密管理
多项选择题
1.涉密人员包括( )
A.核心 B.重要 C.一般
单项选择题
1.定密责任人是( )
A.机关负责人 B.任何人
判断题
1.涉密载体可以随意携带。( )
2
`

const answerDoc = `第1讲 保密概论
多项选择题
1.ABC 2.BCA
单项选择题
1.B
判断题
1.√ 2.×
1` + "\f" + `第2讲 保密管理
多项选择题
1.CBA
单项选择题
1.A
判断题
1.×
2
`

func writeDocs(t *testing.T, question, answer string) config.Profile {
	t.Helper()
	dir := t.TempDir()
	p := config.DefaultProfile()
	p.Question.Path = filepath.Join(dir, "questions.txt")
	p.Answer.Path = filepath.Join(dir, "answers.txt")
	if err := os.WriteFile(p.Question.Path, []byte(question), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p.Answer.Path, []byte(answer), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSmokeDocumentsToBank(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	bankDir := filepath.Join(tmp, "bank")
	svc := NewExtractionService(db, bankDir)
	res, err := svc.Run(context.Background(), writeDocs(t, questionDoc, answerDoc))
	if err != nil {
		t.Fatal(err)
	}

	counts := map[internal.QuestionType]int{}
	for _, tr := range res.Types {
		counts[tr.Type] = tr.Questions
		if tr.Questions != tr.Answers || tr.Malformed != 0 {
			t.Fatalf("type result %+v", tr)
		}
	}
	want := map[internal.QuestionType]int{internal.TypeSingle: 2, internal.TypeMulti: 3, internal.TypeJudge: 3}
	if !reflect.DeepEqual(counts, want) {
		t.Fatalf("counts=%v", counts)
	}

	multi, err := storage.LoadBankType(bankDir, internal.TypeMulti)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(multi[0].Content) != "保密工作的原则包括( )" {
		t.Fatalf("content=%q", multi[0].Content)
	}
	if !reflect.DeepEqual(multi[0].Options, []string{"A.最小化", "B.全程化", "C.精准化"}) {
		t.Fatalf("options=%q", multi[0].Options)
	}
	if multi[1].Answer != "ABC" || len(multi[1].Options) != 3 {
		t.Fatalf("second=%+v", multi[1])
	}

	judge, err := storage.LoadBankType(bankDir, internal.TypeJudge)
	if err != nil {
		t.Fatal(err)
	}
	answers := []string{judge[0].Answer, judge[1].Answer, judge[2].Answer}
	if !reflect.DeepEqual(answers, []string{"T", "F", "F"}) {
		t.Fatalf("judge answers=%q", answers)
	}
	if judge[2].Content != "涉密载体可以随意携带。( )" {
		t.Fatalf("judge content=%q", judge[2].Content)
	}

	mirrored, err := db.ListQuestions(internal.TypeSingle)
	if err != nil {
		t.Fatal(err)
	}
	if len(mirrored) != 2 || mirrored[1].Answer != "A" {
		t.Fatalf("mirrored=%+v", mirrored)
	}
	run, err := db.LatestRun()
	if err != nil {
		t.Fatal(err)
	}
	if run == nil || run.ID != res.RunID || run.Status() != "ok" {
		t.Fatalf("run=%+v", run)
	}
}

func TestSmokeCountMismatchIsolated(t *testing.T) {
	answers := strings.Replace(answerDoc, "1.B\n", "1.B 2.C\n", 1)
	bankDir := t.TempDir()

	svc := NewExtractionService(nil, bankDir)
	res, err := svc.Run(context.Background(), writeDocs(t, questionDoc, answers))
	if !eris.Is(err, ErrExtractionIncomplete) {
		t.Fatalf("err=%v", err)
	}

	failed := res.Failed()
	if len(failed) != 1 || failed[0].Type != internal.TypeSingle || !eris.Is(failed[0].Err, ErrCountMismatch) {
		t.Fatalf("failed=%+v", failed)
	}
	if _, err := os.Stat(storage.BankPath(bankDir, internal.TypeSingle)); !os.IsNotExist(err) {
		t.Fatalf("single bank must not be written, stat err=%v", err)
	}
	for _, typ := range []internal.QuestionType{internal.TypeMulti, internal.TypeJudge} {
		if _, err := os.Stat(storage.BankPath(bankDir, typ)); err != nil {
			t.Fatalf("%s bank missing: %v", typ, err)
		}
	}
}

func TestSmokeMissingSection(t *testing.T) {
	question := strings.ReplaceAll(questionDoc, "单项选择题", "填空题")
	svc := NewExtractionService(nil, t.TempDir())
	res, err := svc.Run(context.Background(), writeDocs(t, question, answerDoc))
	if !eris.Is(err, ErrExtractionIncomplete) {
		t.Fatalf("err=%v", err)
	}
	var single *TypeResult
	for i, tr := range res.Types {
		if tr.Type == internal.TypeSingle {
			single = &res.Types[i]
		}
	}
	if single == nil || !eris.Is(single.Err, ErrAnchorNotFound) {
		t.Fatalf("types=%+v", res.Types)
	}
}

func TestRunLoaderError(t *testing.T) {
	svc := NewExtractionService(nil, t.TempDir())
	svc.load = func(path string, _ source.Options) (source.Document, error) {
		return source.Document{}, eris.New("boom")
	}
	if _, err := svc.Run(context.Background(), config.DefaultProfile()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunRejectsIncompleteProfile(t *testing.T) {
	p := writeDocs(t, questionDoc, answerDoc)
	p.Sections = p.Sections[:2]

	res, err := NewExtractionService(nil, t.TempDir()).Run(context.Background(), p)
	if err == nil || eris.Is(err, ErrExtractionIncomplete) {
		t.Fatalf("err=%v", err)
	}
	if len(res.Types) != 0 {
		t.Fatalf("types=%+v", res.Types)
	}
}
