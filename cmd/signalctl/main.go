// Command signalctl inspects agent replies offline: it parses signal blocks,
// asks the model directly and runs survey focus aggregation on files.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"

	llmpkg "habitual-api/pkg/llm"
)

// exitError carries a process exit code without printing usage.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

type app struct {
	newClient func(configPath string) (llmpkg.LLMClient, error)
}

func defaultClient(configPath string) (llmpkg.LLMClient, error) {
	cfg, err := llmpkg.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return llmpkg.NewClient(cfg)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "signalctl",
		Short:         "Inspect and test agent reply signals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newParseCmd(),
		newCheckCmd(),
		newAskCmd(a),
		newFocusCmd(),
	)
	return root
}

func main() {
	logx.DisableStat()
	root := newRootCmd(&app{newClient: defaultClient})
	if err := root.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.msg != "" {
				fmt.Fprintln(os.Stderr, ee.msg)
			}
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}
