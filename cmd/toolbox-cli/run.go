package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/toolbox/internal/runner"
)

func newRunCmd(state *cliState) *cobra.Command {
	var runnerKind string
	cmd := &cobra.Command{
		Use:   "run <module-id> [action]",
		Short: "Hand a module action to the configured runner",
		Long: `Run resolves an action the way the dashboard does and passes its command
to the runner. Without an action name the module's first action (by name)
is used. The default runner only prints what it would execute.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if runnerKind != "" {
				cfg, err := state.config()
				if err != nil {
					return err
				}
				cfg.Runner = runnerKind
				state.cfg = &cfg
			}
			action := ""
			if len(args) == 2 {
				action = args[1]
			}
			return runAction(cmd, state, args[0], action)
		},
	}
	cmd.Flags().StringVar(&runnerKind, "runner", "", "override the configured runner (dry-run, noop)")
	return cmd
}

func runAction(cmd *cobra.Command, state *cliState, moduleID, actionName string) error {
	cfg, err := state.config()
	if err != nil {
		return err
	}
	r, err := runner.New(cfg.Runner)
	if err != nil {
		return err
	}
	idx, root, err := state.index()
	if err != nil {
		return err
	}
	mod, ok := idx.Lookup(moduleID)
	if !ok {
		return fmt.Errorf("unknown module %q under %s", moduleID, root)
	}
	actions := mod.SortedActions()
	if len(actions) == 0 {
		return fmt.Errorf("module %s has no actions", mod.ID)
	}
	selected := actions[0]
	if actionName != "" {
		found := false
		for _, candidate := range actions {
			if candidate.Name == actionName {
				selected = candidate
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("module %s has no action %q", mod.ID, actionName)
		}
	}

	state.logger.Debug("Run · %s/%s via %s", mod.ID, selected.Name, cfg.Runner)
	res, err := r.Run(cmd.Context(), runner.Request{
		ModuleID: mod.ID,
		Action:   selected.Name,
		Command:  selected.Command,
		Dir:      mod.Root,
	})
	if res.Message != "" {
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	}
	if errors.Is(err, runner.ErrUnimplemented) {
		state.logger.Warn("Run · %s/%s %s", mod.ID, selected.Name, res.Status)
		return nil
	}
	if err != nil {
		return fmt.Errorf("run %s/%s: %w", mod.ID, selected.Name, err)
	}
	return nil
}
