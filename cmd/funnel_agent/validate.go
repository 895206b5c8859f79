package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/jonathan/hiring-funnel/internal/schemas"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var schemaArg, jsonPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a JSON file against a schema",
		Long: `Validates a JSON document against an embedded schema (analysis_request, analysis_result)
or a schema file on disk. Exits non-zero when validation fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if slices.Contains(schemas.Names(), schemaArg) {
				var data []byte
				data, err = os.ReadFile(jsonPath)
				if err != nil {
					return fmt.Errorf("failed to read JSON file: %w", err)
				}
				err = schemas.ValidateBytes(schemaArg, data)
			} else {
				err = schemas.ValidateJSON(schemaArg, jsonPath)
			}

			if err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Validation failed: %v\n", err)
				return fmt.Errorf("validation failed")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s\n", jsonPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaArg, "schema", "", "Embedded schema name or path to a schema file")
	cmd.Flags().StringVar(&jsonPath, "json", "", "Path to the JSON file to validate")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("json")
	return cmd
}
