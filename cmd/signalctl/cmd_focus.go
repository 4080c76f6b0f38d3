package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"habitual-api/pkg/survey"
)

func loadResponse(path string) (survey.Response, error) {
	var resp survey.Response
	data, err := os.ReadFile(path)
	if err != nil {
		return resp, err
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return resp, fmt.Errorf("decode %s: %w", path, err)
	}
	return resp, nil
}

func newFocusCmd() *cobra.Command {
	var opts survey.Options
	cmd := &cobra.Command{
		Use:   "focus a.json b.json",
		Short: "Aggregate two survey responses and print the focus areas",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadResponse(args[0])
			if err != nil {
				return err
			}
			b, err := loadResponse(args[1])
			if err != nil {
				return err
			}
			result, err := survey.Aggregate(a, b, opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().IntVarP(&opts.FocusCount, "count", "n", 0, "number of focus areas (default 3)")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", 0, "only pick dimensions averaging below this")
	return cmd
}
