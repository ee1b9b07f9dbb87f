package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"idea-builder-backend/internal/config"
	"idea-builder-backend/internal/steps"
	"idea-builder-backend/internal/types"
)

var stepsJSON bool

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Print the wizard steps and their fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := steps.Open(config.Load().StepsFile)
		if err != nil {
			return err
		}
		return printSteps(cmd.OutOrStdout(), registry, stepsJSON)
	},
}

func init() {
	stepsCmd.Flags().BoolVar(&stepsJSON, "json", false, "print as JSON")
}

func printSteps(w io.Writer, registry *steps.Registry, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(types.StepsResponse{Steps: registry.Steps()})
	}
	for i, s := range registry.Steps() {
		fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, s.Name, s.Prompt)
		for _, f := range s.Fields {
			fmt.Fprintf(w, "   - %s (%s): %s\n", f.Key, f.Label, f.Placeholder)
		}
	}
	return nil
}
