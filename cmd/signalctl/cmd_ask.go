package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	llmpkg "habitual-api/pkg/llm"
	"habitual-api/pkg/signal"
)

func newAskCmd(a *app) *cobra.Command {
	var (
		configPath string
		model      string
		system     string
		quiet      bool
	)
	cmd := &cobra.Command{
		Use:   "ask [prompt...]",
		Short: "Stream a completion and parse the reply for a signal",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.TrimSpace(strings.Join(args, " "))
			if prompt == "" {
				text, err := readInput(cmd, nil)
				if err != nil {
					return err
				}
				prompt = strings.TrimSpace(text)
			}
			if prompt == "" {
				return errors.New("ask: prompt is empty")
			}

			client, err := a.newClient(configPath)
			if err != nil {
				return err
			}
			defer client.Close()

			msgs := make([]llmpkg.Message, 0, 2)
			if system != "" {
				msgs = append(msgs, llmpkg.Message{Role: llmpkg.RoleSystem, Content: system})
			}
			msgs = append(msgs, llmpkg.Message{Role: llmpkg.RoleUser, Content: prompt})

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ch, err := client.ChatStream(ctx, &llmpkg.ChatRequest{Model: model, Messages: msgs, Stream: true})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var reply string
			if quiet {
				reply, _, err = llmpkg.CollectStream(ch)
			} else {
				reply, err = echoStream(cmd, ch)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "--- signal ---")
			return writeJSON(out, signal.Parse(reply))
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "etc/llm.yaml", "LLM config file")
	cmd.Flags().StringVarP(&model, "model", "m", "", "model alias; empty uses the config default")
	cmd.Flags().StringVar(&system, "system", "", "system prompt")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not echo the reply while it streams")
	return cmd
}

func echoStream(cmd *cobra.Command, ch <-chan llmpkg.StreamResponse) (string, error) {
	var sb strings.Builder
	for chunk := range ch {
		if chunk.Err != nil {
			return sb.String(), chunk.Err
		}
		for _, choice := range chunk.Choices {
			sb.WriteString(choice.Delta.Content)
			fmt.Fprint(cmd.OutOrStdout(), choice.Delta.Content)
		}
	}
	return sb.String(), nil
}
