package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"novapro/internal/advisor"
)

// schemaCmd prints the structured-output schema
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the response schema sent to the model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(advisor.ResponseSchema())
	},
}
