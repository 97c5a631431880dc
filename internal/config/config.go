package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
)

type Config struct {
	DBPath      string
	BankDir     string
	OutputDir   string
	ProfilePath string

	LogLevel string
	QuizSeed int64
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, eris.Wrap(err, "config: working directory")
	}

	cfg := Config{
		DBPath:      getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		BankDir:     getEnv("BANK_DIR", filepath.Join(cwd, "data")),
		OutputDir:   getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		ProfilePath: getEnv("PROFILE_PATH", ""),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		QuizSeed: getEnvInt64("QUIZ_SEED", 0),
	}

	return cfg, nil
}

// Profile returns the document profile named by PROFILE_PATH, or the
// built-in one when it is unset.
func (c Config) Profile() (Profile, error) {
	if strings.TrimSpace(c.ProfilePath) == "" {
		return DefaultProfile(), nil
	}
	return LoadProfile(c.ProfilePath)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
