package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"quizbank/internal"
)

const bankSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["content", "options", "answer", "type"],
    "properties": {
      "content": {"type": "string"},
      "options": {"type": "array", "items": {"type": "string"}},
      "answer": {"type": "string", "minLength": 1},
      "type": {"enum": ["single", "multi", "judge"]}
    }
  }
}`

func BankPath(dir string, t internal.QuestionType) string {
	return filepath.Join(dir, "quiz_data_"+string(t)+".json")
}

// WriteBank persists one typed collection. The file is replaced atomically
// so a failed run never leaves a half-written bank behind.
func WriteBank(dir string, t internal.QuestionType, records []internal.QuestionRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "storage: create bank dir")
	}

	if records == nil {
		records = []internal.QuestionRecord{}
	}
	blob, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", eris.Wrapf(err, "storage: encode %s bank", t)
	}

	path := BankPath(dir, t)
	tmp, err := os.CreateTemp(dir, ".quiz_data_*.json")
	if err != nil {
		return "", eris.Wrap(err, "storage: temp bank file")
	}
	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", eris.Wrap(err, "storage: write bank")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", eris.Wrap(err, "storage: close bank")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return "", eris.Wrap(err, "storage: replace bank")
	}
	return path, nil
}

func LoadBankType(dir string, t internal.QuestionType) ([]internal.QuestionRecord, error) {
	path := BankPath(dir, t)
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "storage: read %s", path)
	}
	if err := validateBank(blob); err != nil {
		return nil, eris.Wrapf(err, "storage: %s", path)
	}

	var records []internal.QuestionRecord
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, eris.Wrapf(err, "storage: decode %s", path)
	}
	for i, rec := range records {
		if rec.Type != t {
			return nil, eris.Errorf("storage: %s record %d has type %q", path, i+1, rec.Type)
		}
	}
	return records, nil
}

// LoadBank concatenates the three collections into one quiz pool.
func LoadBank(dir string) ([]internal.QuestionRecord, error) {
	pool := []internal.QuestionRecord{}
	for _, t := range internal.QuestionTypes {
		records, err := LoadBankType(dir, t)
		if err != nil {
			return nil, err
		}
		pool = append(pool, records...)
	}
	return pool, nil
}

func validateBank(blob []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("bank.json", strings.NewReader(bankSchema)); err != nil {
		return eris.Wrap(err, "failed to load bank schema")
	}
	schema, err := compiler.Compile("bank.json")
	if err != nil {
		return eris.Wrap(err, "failed to compile bank schema")
	}

	var doc any
	if err := json.NewDecoder(bytes.NewReader(blob)).Decode(&doc); err != nil {
		return eris.Wrap(err, "failed to decode bank for validation")
	}
	if err := schema.Validate(doc); err != nil {
		return eris.Wrap(err, "bank does not match schema")
	}
	return nil
}
