package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"quizbank/internal"
	"quizbank/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "bank:stats",
	Short: "Show question counts and the last extraction run",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		counts, err := db.CountQuestions()
		if err != nil {
			return err
		}
		total := 0
		for _, t := range internal.QuestionTypes {
			fmt.Printf("%s (%s): %d\n", t.Label(), t, counts[t])
			total += counts[t]
		}
		fmt.Printf("total: %d\n", total)

		drift, err := db.MirrorDrift(cfg.BankDir)
		if err != nil {
			return err
		}
		if len(drift) == 0 {
			fmt.Println("sqlite mirror: in sync with bank files")
		} else {
			for _, t := range drift {
				fmt.Printf("sqlite mirror: %s differs from %s\n", t, storage.BankPath(cfg.BankDir, t))
			}
		}

		updated, err := db.GetMetadata("bank.last_extract")
		if err != nil {
			return err
		}
		if updated != nil {
			fmt.Printf("bank updated: %s\n", *updated)
		}

		run, err := db.LatestRun()
		if err != nil {
			return err
		}
		if run == nil {
			fmt.Println("no extraction runs yet")
			return nil
		}
		fmt.Printf("last run %s at %s: %s\n", run.ID, run.FinishedAt.Format(time.RFC3339), run.Status())
		for _, line := range failureLines(*run) {
			fmt.Println(line)
		}
		return nil
	},
}

// failureLines lists a run's per-type failures in bank order.
func failureLines(run internal.ExtractionRun) []string {
	var out []string
	for _, t := range internal.QuestionTypes {
		if reason, ok := run.Failures[t]; ok {
			out = append(out, fmt.Sprintf("  %s: %s", t, reason))
		}
	}
	return out
}
