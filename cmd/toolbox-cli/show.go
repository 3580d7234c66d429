package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newShowCmd(state *cliState) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "show <module-id>",
		Short: "Show one module's descriptor and actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, root, err := state.index()
			if err != nil {
				return err
			}
			mod, ok := idx.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown module %q under %s", args[0], root)
			}
			out := cmd.OutOrStdout()
			if asYAML {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(mod.Descriptor); err != nil {
					return fmt.Errorf("encode %s: %w", mod.ID, err)
				}
				return enc.Close()
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID:\t%s\n", mod.ID)
			fmt.Fprintf(w, "Name:\t%s\n", mod.Name)
			fmt.Fprintf(w, "Category:\t%s\n", mod.Category)
			if mod.Description != "" {
				fmt.Fprintf(w, "Description:\t%s\n", mod.Description)
			}
			if mod.ScriptKind != "" {
				fmt.Fprintf(w, "Script kind:\t%s\n", mod.ScriptKind)
			}
			fmt.Fprintf(w, "Enabled:\t%t\n", mod.Enabled)
			fmt.Fprintf(w, "Path:\t%s\n", mod.RelativeRoot(root))
			fmt.Fprintf(w, "Descriptor:\t%s\n", mod.Source)
			if err := w.Flush(); err != nil {
				return err
			}

			actions := mod.SortedActions()
			if len(actions) == 0 {
				fmt.Fprintln(out, "No actions.")
				return nil
			}
			fmt.Fprintln(out, "\nActions:")
			w = tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
			for _, action := range actions {
				fmt.Fprintf(w, "  %s\t%s\n", action.Name, action.Command)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the descriptor as YAML")
	return cmd
}
