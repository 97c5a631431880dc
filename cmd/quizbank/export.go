package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"quizbank/internal/pipeline"
	"quizbank/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "bank:export-xlsx",
	Short: "Export the JSON bank to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := exportOut
		if out == "" {
			out = filepath.Join(cfg.OutputDir, "quiz_bank.xlsx")
		}

		records, err := storage.LoadBank(cfg.BankDir)
		if err != nil {
			return err
		}
		if err := pipeline.ExportBankToXLSX(records, out); err != nil {
			return err
		}
		fmt.Printf("exported %d questions to %s\n", len(records), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output xlsx path (default: OUTPUT_DIR/quiz_bank.xlsx)")
}
