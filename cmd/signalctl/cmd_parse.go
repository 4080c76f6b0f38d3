package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"habitual-api/pkg/signal"
)

// readInput reads the named file, or stdin when no file or "-" is given.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newParseCmd() *cobra.Command {
	var strict, validate bool
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the signal carried by a reply as JSON, or null",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			sig := signal.Parse(text)
			if err := writeJSON(cmd.OutOrStdout(), sig); err != nil {
				return err
			}
			if sig == nil {
				return nil
			}
			if strict && sig.Failed() {
				return &exitError{code: 1, msg: fmt.Sprintf("%s: %s", sig.Kind, sig.Error)}
			}
			if validate && !sig.Failed() {
				v := signal.MustNewValidator(signal.DefaultSchemas())
				if err := v.Validate(sig); err != nil {
					return &exitError{code: 1, msg: err.Error()}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit 1 when the signal payload cannot be parsed")
	cmd.Flags().BoolVar(&validate, "validate", false, "exit 1 when the payload does not match its schema")
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Print the signal kind of a reply; exit 1 when there is none",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			kind, ok := signal.Classify(text)
			if !ok {
				return &exitError{code: 1}
			}
			fmt.Fprintln(cmd.OutOrStdout(), kind)
			return nil
		},
	}
}
