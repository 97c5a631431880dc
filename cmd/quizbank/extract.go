package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quizbank/internal/pipeline"
	"quizbank/internal/storage"
)

var extractCmd = &cobra.Command{
	Use:   "bank:extract",
	Short: "Extract the question bank from the profile's documents",
	Long: `Read the question and answer documents named by the profile, align every
question with its answer and write quiz_data_<type>.json into BANK_DIR.

Types are processed independently. A type whose section is missing or whose
question and answer counts differ is not written, and the command exits
non-zero after writing the others.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := cfg.Profile()
		if err != nil {
			return err
		}

		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		svc := pipeline.NewExtractionService(db, cfg.BankDir)
		res, runErr := svc.Run(cmd.Context(), profile)
		for _, tr := range res.Types {
			if tr.Err != nil {
				fmt.Printf("%-6s failed: %v\n", tr.Type, tr.Err)
				continue
			}
			fmt.Printf("%-6s questions=%d malformed=%d -> %s\n", tr.Type, tr.Questions, tr.Malformed, tr.Path)
		}
		if res.RunID != "" {
			fmt.Printf("run %s\n", res.RunID)
		}
		return runErr
	},
}
