package main

import (
	"github.com/spf13/cobra"

	"github.com/kingrea/toolbox/internal/catalog"
	"github.com/kingrea/toolbox/internal/config"
	"github.com/kingrea/toolbox/internal/logbook"
	"github.com/kingrea/toolbox/internal/registry"
)

// cliState carries persistent flag values and lazily loaded collaborators
// shared by every subcommand.
type cliState struct {
	configPath string
	modulesDir string
	verbose    bool
	lenient    bool

	listModules bool
	runModule   string

	cfg    *config.Config
	logger *logbook.Logbook
}

func newRootCmd() *cobra.Command {
	state := &cliState{}
	root := &cobra.Command{
		Use:   "toolbox-cli",
		Short: "Inspect and run toolbox modules without the dashboard",
		Long: `toolbox-cli scans the modules directory for module.toml / module.yaml
descriptors and lets you list them, inspect one, or hand an action to the
configured runner.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			state.logger = logbook.NewWriter(cmd.ErrOrStderr())
			state.logger.SetLevel(logbook.LevelWarn)
			if state.verbose {
				state.logger.SetLevel(logbook.LevelDebug)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case state.listModules:
				return runList(cmd, state, false)
			case state.runModule != "":
				return runAction(cmd, state, state.runModule, "")
			}
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&state.configPath, "config", "", "path to config file (default $TOOLBOX_CONFIG or $XDG_CONFIG_HOME/toolbox/config.toml)")
	flags.StringVar(&state.modulesDir, "modules", "", "modules directory (default $WPSI_UTILS_MODULE_DIR, modules_dir, or ./modules)")
	flags.BoolVarP(&state.verbose, "verbose", "v", false, "log debug output to stderr")
	flags.BoolVar(&state.lenient, "lenient", false, "skip invalid descriptors instead of failing")

	root.Flags().BoolVar(&state.listModules, "list-modules", false, "list discovered modules and exit")
	root.Flags().StringVar(&state.runModule, "run", "", "run the first action of a module and exit")
	root.MarkFlagsMutuallyExclusive("list-modules", "run")

	root.AddCommand(
		newListCmd(state),
		newShowCmd(state),
		newRunCmd(state),
		newConfigCmd(state),
	)
	return root
}

// config loads the configuration once per invocation.
func (s *cliState) config() (config.Config, error) {
	if s.cfg != nil {
		return *s.cfg, nil
	}
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return config.Config{}, err
	}
	s.cfg = &cfg
	if cfg.Path != "" {
		s.logger.Debug("Config · loaded %s", cfg.Path)
	}
	return cfg, nil
}

// modules scans the resolved modules directory.
func (s *cliState) modules() ([]registry.Module, string, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, "", err
	}
	root := cfg.ResolveModulesDir(s.modulesDir)
	var opts []registry.ScanOption
	if s.lenient {
		opts = append(opts, registry.WithLenient(func(path string, err error) {
			s.logger.Warn("Scan · skipped %s: %v", path, err)
		}))
	}
	s.logger.Debug("Scan · %s", root)
	mods, err := registry.New(root, opts...).Modules()
	if err != nil {
		return nil, root, err
	}
	return mods, root, nil
}

// index scans and indexes modules by id, rejecting duplicates.
func (s *cliState) index() (*registry.Index, string, error) {
	mods, root, err := s.modules()
	if err != nil {
		return nil, root, err
	}
	idx, err := registry.NewIndex(mods)
	if err != nil {
		return nil, root, err
	}
	return idx, root, nil
}

// catalog scans and groups modules the way the dashboard shows them.
func (s *cliState) catalog() (*catalog.Catalog, error) {
	mods, root, err := s.modules()
	if err != nil {
		return nil, err
	}
	return catalog.Build(mods, root), nil
}
