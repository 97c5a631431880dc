package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quizbank/internal"
	"quizbank/internal/config"
	"quizbank/internal/source"
	"quizbank/internal/storage"
)

var ErrExtractionIncomplete = eris.New("extraction incomplete")

// Loader yields the page text of a document.
type Loader func(path string, opts source.Options) (source.Document, error)

type ExtractionService struct {
	db      *storage.DB
	bankDir string
	load    Loader
}

func NewExtractionService(db *storage.DB, bankDir string) *ExtractionService {
	return &ExtractionService{db: db, bankDir: bankDir, load: source.Load}
}

type TypeResult struct {
	Type      internal.QuestionType
	Questions int
	Answers   int
	Malformed int
	Path      string
	Err       error
}

type ExtractResult struct {
	RunID string
	Types []TypeResult
}

func (r ExtractResult) Failed() []TypeResult {
	var out []TypeResult
	for _, tr := range r.Types {
		if tr.Err != nil {
			out = append(out, tr)
		}
	}
	return out
}

// Run extracts both documents of the profile and persists every type that
// assembled cleanly. Types fail independently; any failure is reported as
// ErrExtractionIncomplete after the good types are written.
func (s *ExtractionService) Run(ctx context.Context, profile config.Profile) (ExtractResult, error) {
	if err := profile.Validate(); err != nil {
		return ExtractResult{}, err
	}

	start := time.Now()
	run := internal.ExtractionRun{
		ID:        uuid.NewString(),
		StartedAt: start,
		Question:  profile.Question.Path,
		Answer:    profile.Answer.Path,
		Counts:    map[internal.QuestionType]int{},
		Failures:  map[internal.QuestionType]string{},
	}
	result := ExtractResult{RunID: run.ID}

	questionText, answerText, err := s.loadDocuments(ctx, profile)
	if err != nil {
		return result, err
	}

	slicer, err := NewSlicer(profile)
	if err != nil {
		return result, err
	}

	built := map[internal.QuestionType][]internal.QuestionRecord{}
	for _, t := range internal.QuestionTypes {
		rule, _ := profile.Section(t)
		records, tr := s.buildType(slicer, rule, profile.Marker, questionText, answerText)
		tr.Type = t
		if tr.Err != nil {
			zap.L().Error("type extraction failed", zap.String("type", string(t)), zap.Error(tr.Err))
			run.Failures[t] = tr.Err.Error()
		} else {
			built[t] = records
		}
		result.Types = append(result.Types, tr)
	}

	for i, tr := range result.Types {
		records, ok := built[tr.Type]
		if !ok {
			continue
		}
		path, err := storage.WriteBank(s.bankDir, tr.Type, records)
		if err != nil {
			return result, err
		}
		result.Types[i].Path = path
		run.Counts[tr.Type] = len(records)
	}

	run.FinishedAt = time.Now()
	if s.db != nil {
		if err := s.mirror(run, built); err != nil {
			return result, err
		}
	}

	zap.L().Info("extraction finished",
		zap.String("run", run.ID),
		zap.String("status", run.Status()),
		zap.Duration("took", run.FinishedAt.Sub(start)),
	)

	if len(run.Failures) > 0 {
		return result, eris.Wrapf(ErrExtractionIncomplete, "%d of %d types failed", len(run.Failures), len(internal.QuestionTypes))
	}
	return result, nil
}

func (s *ExtractionService) buildType(slicer *Slicer, rule config.SectionRule, marker, questionText, answerText string) ([]internal.QuestionRecord, TypeResult) {
	tr := TypeResult{Type: rule.Type}

	qSpan, err := slicer.Section(rule, questionText)
	if err != nil {
		tr.Err = eris.Wrap(err, "question document")
		return nil, tr
	}
	aSpan, err := slicer.Section(rule, answerText)
	if err != nil {
		tr.Err = eris.Wrap(err, "answer document")
		return nil, tr
	}

	items := DecomposeItems(SegmentItems(qSpan.Text, marker), rule.Type, marker)
	answers := ParseAnswers(aSpan.Text, marker, rule.Type)
	tr.Questions = len(items)
	tr.Answers = len(answers)
	for _, item := range items {
		if item.Malformed {
			tr.Malformed++
		}
	}

	records, err := Assemble(items, answers, rule.Type)
	if err != nil {
		tr.Err = err
		return nil, tr
	}
	return records, tr
}

// loadDocuments reads and normalizes the two documents concurrently.
func (s *ExtractionService) loadDocuments(ctx context.Context, profile config.Profile) (string, string, error) {
	opts := source.Options{HTMLPageSelector: profile.HTMLPageSelector}
	docs := []config.DocumentProfile{profile.Question, profile.Answer}
	texts := make([]string, len(docs))

	g, gCtx := errgroup.WithContext(ctx)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			loaded, err := s.load(doc.Path, opts)
			if err != nil {
				return err
			}
			texts[i] = NewNormalizer(doc, profile).Normalize(loaded.Pages)
			zap.L().Debug("document normalized",
				zap.String("path", doc.Path),
				zap.Int("pages", len(loaded.Pages)),
				zap.Int("chars", len(texts[i])),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", "", eris.Wrap(err, "load documents")
	}
	return texts[0], texts[1], nil
}

func (s *ExtractionService) mirror(run internal.ExtractionRun, built map[internal.QuestionType][]internal.QuestionRecord) error {
	if err := s.db.InsertRun(run); err != nil {
		return err
	}
	for _, t := range internal.QuestionTypes {
		records, ok := built[t]
		if !ok {
			continue
		}
		if err := s.db.ReplaceQuestions(run.ID, t, records); err != nil {
			return err
		}
	}
	return s.db.SetMetadata("bank.last_extract", run.FinishedAt.UTC().Format(time.RFC3339))
}
