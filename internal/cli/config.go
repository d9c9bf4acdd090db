package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VarunSharma3520/Reply/internal/config"
	"github.com/VarunSharma3520/Reply/internal/fs"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(); err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		printConfig(os.Stdout, cfg)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting in config.json",
	Long:  "Change a setting in config.json. Keys: " + strings.Join(config.Keys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := fs.EnsureVaultExists(config.VaultPath()); err != nil {
			return err
		}
		cfg, err := config.LoadFile()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Printf("%s %s\n", okStyle.Render("Saved"), config.ConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func printConfig(w io.Writer, cfg *config.Config) {
	rows := [][2]string{
		{"vault", config.VaultPath()},
		{"model", cfg.ModelName},
		{"temperature", fmt.Sprintf("%.2f", cfg.Temperature)},
		{"api_url", cfg.APIURL},
		{"style", cfg.DefaultStyle().Label()},
		{"embed_model", cfg.EmbedModel},
		{"qdrant_addr", cfg.QdrantAddr},
		{"collection", cfg.Collection},
		{"disabled", fmt.Sprintf("%t", cfg.Disabled)},
	}
	for _, r := range rows {
		v := r[1]
		if v == "" {
			v = mutedStyle.Render("(unset)")
		}
		fmt.Fprintf(w, "%-12s %s\n", r[0]+":", v)
	}
}
