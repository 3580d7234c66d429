package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kingrea/toolbox/internal/config"
)

func newConfigCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the toolbox config file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write a commented default config if none exists",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path := config.ResolvePath(state.configPath)
				if path == "" {
					return fmt.Errorf("cannot determine config location; pass --config")
				}
				created, err := config.WriteDefault(path)
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s already exists; left unchanged\n", path)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := state.config()
				if err != nil {
					return err
				}
				source := cfg.Path
				if source == "" {
					source = "(defaults)"
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "source:\t%s\n", source)
				fmt.Fprintf(w, "modules_dir:\t%s\n", cfg.ResolveModulesDir(state.modulesDir))
				fmt.Fprintf(w, "auto_execute:\t%s\n", strings.Join(cfg.AutoExecute, ","))
				fmt.Fprintf(w, "skip_confirmation:\t%t\n", cfg.SkipConfirmation)
				fmt.Fprintf(w, "size_bypass:\t%t\n", cfg.SizeBypass)
				fmt.Fprintf(w, "runner:\t%s\n", cfg.Runner)
				fmt.Fprintf(w, "log:\t%s\n", config.LogPath())
				return w.Flush()
			},
		},
	)
	return cmd
}
