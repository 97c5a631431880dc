package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"quizbank/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, eris.Wrap(err, "storage: create db dir")
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "storage: open")
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, eris.Wrap(err, "storage: journal mode")
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, eris.Wrap(err, "storage: schema")
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  questionPath TEXT NOT NULL,
  answerPath TEXT NOT NULL,
  status TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  failuresJson TEXT NOT NULL,
  startedAt TEXT NOT NULL,
  finishedAt TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  type TEXT NOT NULL,
  position INTEGER NOT NULL,
  content TEXT NOT NULL,
  optionsJson TEXT NOT NULL,
  answer TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(type, position),
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_questions_type ON questions(type);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(run internal.ExtractionRun) error {
	countsJSON, _ := json.Marshal(run.Counts)
	failuresJSON, _ := json.Marshal(run.Failures)
	_, err := d.conn.Exec(`
INSERT INTO runs (id, questionPath, answerPath, status, countsJson, failuresJson, startedAt, finishedAt)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, run.ID, run.Question, run.Answer, run.Status(), string(countsJSON), string(failuresJSON),
		run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339))
	return eris.Wrap(err, "storage: insert run")
}

func (d *DB) LatestRun() (*internal.ExtractionRun, error) {
	var run internal.ExtractionRun
	var status, countsJSON, failuresJSON, startedAt, finishedAt string
	err := d.conn.QueryRow(`
SELECT id, questionPath, answerPath, status, countsJson, failuresJson, startedAt, finishedAt
FROM runs ORDER BY startedAt DESC, rowid DESC LIMIT 1
`).Scan(&run.ID, &run.Question, &run.Answer, &status, &countsJSON, &failuresJSON, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "storage: latest run")
	}
	_ = json.Unmarshal([]byte(countsJSON), &run.Counts)
	_ = json.Unmarshal([]byte(failuresJSON), &run.Failures)
	run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	run.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
	return &run, nil
}

// ReplaceQuestions swaps the stored collection of one type for records.
func (d *DB) ReplaceQuestions(runID string, t internal.QuestionType, records []internal.QuestionRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return eris.Wrap(err, "storage: begin")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM questions WHERE type = ?`, string(t)); err != nil {
		return eris.Wrapf(err, "storage: clear %s", t)
	}

	stmt, err := tx.Prepare(`
INSERT INTO questions (runId, type, position, content, optionsJson, answer)
VALUES (?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return eris.Wrap(err, "storage: prepare insert")
	}
	defer stmt.Close()

	for i, rec := range records {
		optionsJSON, _ := json.Marshal(rec.Options)
		if _, err := stmt.Exec(runID, string(t), i+1, rec.Content, string(optionsJSON), rec.Answer); err != nil {
			return eris.Wrapf(err, "storage: insert %s #%d", t, i+1)
		}
	}

	return eris.Wrap(tx.Commit(), "storage: commit")
}

func (d *DB) ListQuestions(t internal.QuestionType) ([]internal.QuestionRecord, error) {
	rows, err := d.conn.Query(`
SELECT content, optionsJson, answer, type
FROM questions WHERE type = ? ORDER BY position ASC
`, string(t))
	if err != nil {
		return nil, eris.Wrap(err, "storage: list questions")
	}
	defer rows.Close()

	out := []internal.QuestionRecord{}
	for rows.Next() {
		var rec internal.QuestionRecord
		var optionsJSON, typ string
		if err := rows.Scan(&rec.Content, &optionsJSON, &rec.Answer, &typ); err != nil {
			return nil, eris.Wrap(err, "storage: scan question")
		}
		rec.Type = internal.QuestionType(typ)
		_ = json.Unmarshal([]byte(optionsJSON), &rec.Options)
		if rec.Options == nil {
			rec.Options = []string{}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (d *DB) CountQuestions() (map[internal.QuestionType]int, error) {
	rows, err := d.conn.Query(`SELECT type, COUNT(*) FROM questions GROUP BY type`)
	if err != nil {
		return nil, eris.Wrap(err, "storage: count questions")
	}
	defer rows.Close()

	out := map[internal.QuestionType]int{}
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		out[internal.QuestionType(typ)] = n
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// MirrorDrift lists the types whose sqlite copy no longer matches the JSON
// bank in dir. A type absent from both is in sync.
func (d *DB) MirrorDrift(dir string) ([]internal.QuestionType, error) {
	var drift []internal.QuestionType
	for _, t := range internal.QuestionTypes {
		stored, err := d.ListQuestions(t)
		if err != nil {
			return nil, err
		}

		var bank []internal.QuestionRecord
		if _, err := os.Stat(BankPath(dir, t)); err == nil {
			if bank, err = LoadBankType(dir, t); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, eris.Wrapf(err, "storage: stat %s bank", t)
		}

		if !sameRecords(stored, bank) {
			drift = append(drift, t)
		}
	}
	return drift, nil
}

func sameRecords(a, b []internal.QuestionRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Content != b[i].Content || a[i].Answer != b[i].Answer || a[i].Type != b[i].Type ||
			!slices.Equal(a[i].Options, b[i].Options) {
			return false
		}
	}
	return true
}
