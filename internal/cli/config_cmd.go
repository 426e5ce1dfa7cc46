package cli

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/logpulse/internal/config"
	"github.com/rileyhilliard/logpulse/internal/errors"
	"github.com/rileyhilliard/logpulse/internal/ui"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect logpulse configuration",
	}
	cmd.AddCommand(a.configInitCmd(), a.configShowCmd())
	return cmd
}

func (a *app) configInitCmd() *cobra.Command {
	var force, global bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		Long: `Write .logpulse.yaml in the current directory (or the global config with
--global) filled with the default settings.

Examples:
  logpulse config init
  logpulse config init --global
  logpulse config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigFileName
			if global {
				path = config.GlobalConfigPath()
				if path == "" {
					return errors.New(errors.ErrConfig,
						"Couldn't find your home directory",
						"Set HOME, or run 'logpulse config init' without --global.")
				}
			}
			if a.flags.ConfigPath != "" {
				path = config.ExpandTilde(a.flags.ConfigPath)
			}

			cfg := config.DefaultConfig()
			if cmd.Flags().Changed("url") {
				cfg.API.URL = a.flags.URL
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			if err := config.WriteFile(path, cfg, force); err != nil {
				return err
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), abs)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	cmd.Flags().BoolVar(&global, "global", false, "write ~/.config/logpulse/config.yaml")
	return cmd
}

// settingRow is one --json entry of 'logpulse config show'.
type settingRow struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

func (a *app) configShowCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration and where each value came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := a.loadConfig(cmd)
			if err != nil {
				if out.JSON {
					return writeJSONResult(cmd, nil, err)
				}
				return err
			}

			settings := loaded.Settings()
			if out.JSON {
				rows := make([]settingRow, len(settings))
				for i, s := range settings {
					rows[i] = settingRow{Key: s.Key, Value: s.Value, Source: string(s.Source)}
				}
				return WriteJSONSuccess(cmd.OutOrStdout(), map[string]interface{}{
					"path":     loaded.Path,
					"settings": rows,
				})
			}

			w := cmd.OutOrStdout()
			if loaded.Path != "" {
				fmt.Fprintf(w, "%s %s\n\n", ui.LabelStyle().Render("Config:"), loaded.Path)
			} else {
				fmt.Fprintf(w, "%s %s\n\n", ui.LabelStyle().Render("Config:"), ui.MutedStyle().Render("none found, using defaults"))
			}
			fmt.Fprintln(w, renderSettings(settings))
			return nil
		},
	}
	addOutputFlags(cmd, &out)
	return cmd
}

func renderSettings(settings []config.Setting) string {
	keyWidth, valueWidth := len("Key"), len("Value")
	rows := make([]table.Row, len(settings))
	for i, s := range settings {
		rows[i] = table.Row{s.Key, s.Value, string(s.Source)}
		keyWidth = max(keyWidth, len(s.Key))
		valueWidth = max(valueWidth, len(s.Value))
	}

	t := ui.NewTable([]ui.TableColumn{
		{Title: "Key", Width: keyWidth},
		{Title: "Value", Width: valueWidth},
		{Title: "Source", Width: len("default")},
	}, rows)
	return t.View()
}
