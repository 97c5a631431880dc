package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"quizbank/internal/config"
)

var (
	profilePath string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "quizbank",
	Short: "Build a question bank from exercise documents and quiz yourself on it",
	Long: `quizbank reads an exercise document and its answer key, splits them into
single-choice, multiple-choice and true/false questions, and writes one JSON
bank per type. The bank can then be exported to xlsx or served as a quiz.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if profilePath != "" {
			loaded.ProfilePath = profilePath
		}
		cfg = loaded

		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&profilePath, "profile", "", "document profile yaml (default: built-in profile or PROFILE_PATH)",
	)

	rootCmd.AddCommand(extractCmd, exportCmd, statsCmd, quizCmd)
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, eris.Wrapf(err, "log level %q", level)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}
