// Command plexus is an interactive diagram editor for the terminal. Nodes
// are placed and wired with the mouse while a physics layout keeps them
// readably separated.
package main

import (
	"fmt"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"plexus/editor"
	"plexus/graph"
	"plexus/layout"
	"plexus/persist"
	"plexus/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:   "plexus [file]",
		Short: "Interactive force-directed diagram editor",
		Long: `Plexus edits node/edge diagrams directly with the mouse: drag to move,
box-drag to select, right-drag from a node to draw an edge, right-click
empty canvas to create a node. A physics layout keeps nodes separated;
press m to switch between force and manual layout.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
				ReportTimestamp: true,
				TimeFormat:      "15:04:05.00",
				Level:           level,
			})

			path := "plexus.json"
			if len(args) == 1 {
				path = args[0]
			}
			return run(path, configPath, logger)
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.Flags().StringVarP(&configPath, "config", "c", "", "physics config file (TOML)")
	return root
}

func run(path, configPath string, logger *charmlog.Logger) error {
	cfg := layout.DefaultConfig()
	if configPath != "" {
		loaded, err := layout.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	store := persist.NewStore(path)
	model, mode := loadOrEmpty(store, logger)

	// The TUI doubles as the dialog prompter; the indirection below lets
	// controller and app reference each other without an init cycle.
	var app *tui.App
	prompter := editor.PrompterFunc(func(req editor.Request, done func(editor.Result)) {
		app.Prompt(req, done)
	})

	ctrl := editor.NewController(model, cfg, prompter, logger)
	ctrl.SetMode(mode)

	saver := persist.NewAutosaver(store, 3*time.Second, logger)
	app = tui.New(ctrl, saver, logger)

	defer ctrl.Stop()
	return app.Run()
}

// loadOrEmpty restores a previous session from the state file, or starts
// an empty model when the file is absent. Import warnings are logged, not
// fatal: valid records survive a partially damaged file.
func loadOrEmpty(store *persist.Store, logger *charmlog.Logger) (*graph.Model, editor.LayoutMode) {
	if !store.Exists() {
		return graph.NewModel(), editor.ModeForce
	}
	st, warns, err := store.Load()
	if err != nil {
		logger.Warn("state file unreadable, starting empty", "path", store.Path, "err", err)
		return graph.NewModel(), editor.ModeForce
	}
	for _, w := range warns {
		logger.Warn("import: " + w.String())
	}
	logger.Info("loaded", "path", store.Path, "nodes", len(st.Nodes), "edges", len(st.Edges))
	return persist.Build(st), editor.LayoutModeFromString(st.Mode)
}
