package main

import (
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quizbank/internal/quiz"
	"quizbank/internal/storage"
)

var quizSeed int64

var quizCmd = &cobra.Command{
	Use:   "quiz:run",
	Short: "Answer randomly drawn questions from the bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := storage.LoadBank(cfg.BankDir)
		if err != nil {
			return err
		}

		seed := quizSeed
		if seed == 0 {
			seed = cfg.QuizSeed
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		zap.L().Debug("quiz session", zap.Int64("seed", seed), zap.Int("pool", len(pool)))

		rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1))
		return quiz.NewSession(pool, rng, os.Stdin, os.Stdout).Run(cmd.Context())
	},
}

func init() {
	quizCmd.Flags().Int64Var(&quizSeed, "seed", 0, "random seed (default: QUIZ_SEED or current time)")
}
