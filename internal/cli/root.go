// Package cli implements the reply commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VarunSharma3520/Reply/internal/style"
)

var rootCmd = &cobra.Command{
	Use:   "reply",
	Short: "Draft replies to messages with a local model",
	Long: `Reply turns a short message into a professional or casual reply,
streamed from a local Ollama model. Run without arguments for the
interactive panel.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPanel(cmd.Context())
	},
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
}

// styleFlag resolves the --style flag, falling back to the configured default.
func styleFlag(cmd *cobra.Command, fallback style.Style) (style.Style, error) {
	name, _ := cmd.Flags().GetString("style")
	if name == "" {
		return fallback, nil
	}
	s, err := style.Parse(name)
	if err != nil {
		return fallback, fmt.Errorf("invalid --style: %w", err)
	}
	return s, nil
}
