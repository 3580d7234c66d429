package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type listEntry struct {
	Category string   `json:"category"`
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Actions  []string `json:"actions"`
	Path     string   `json:"path"`
}

func newListCmd(state *cliState) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered modules by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, state, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func runList(cmd *cobra.Command, state *cliState, asJSON bool) error {
	cat, err := state.catalog()
	if err != nil {
		return err
	}
	if cat.IsFallback() {
		fmt.Fprintf(cmd.OutOrStdout(), "No modules found under %s.\n", cat.Root())
		return nil
	}

	entries := make([]listEntry, 0, len(cat.All()))
	for _, e := range cat.All() {
		actions := make([]string, 0, len(e.Module.Actions))
		for _, action := range e.Module.SortedActions() {
			actions = append(actions, action.Name)
		}
		entries = append(entries, listEntry{
			Category: e.Module.Category,
			ID:       e.Module.ID,
			Name:     e.Module.Name,
			Actions:  actions,
			Path:     e.Module.RelativeRoot(cat.Root()),
		})
	}

	if asJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tID\tNAME\tACTIONS\tPATH")
	for _, e := range entries {
		actions := strings.Join(e.Actions, ",")
		if actions == "" {
			actions = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Category, e.ID, e.Name, actions, e.Path)
	}
	return w.Flush()
}
