package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/phravins/notepane/internal/config"
	"github.com/phravins/notepane/internal/debug"
	"github.com/phravins/notepane/internal/fileops"
	"github.com/phravins/notepane/internal/host"
	"github.com/phravins/notepane/internal/notes"
	"github.com/phravins/notepane/internal/render"
	"github.com/phravins/notepane/internal/session"
	"github.com/phravins/notepane/internal/settings"
	"github.com/phravins/notepane/internal/store"
	"github.com/phravins/notepane/internal/tui"
	"github.com/phravins/notepane/internal/watch"
	"github.com/phravins/notepane/pkg/utils"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:     "notepane [directory]",
	Version: config.Version,
	Short:   "A terminal note editor with live markdown preview",
	Long: `notepane lists the .md, .markdown and .txt notes in a directory and
lets you edit them next to a rendered preview. Changes are saved before
you switch notes, change directory or quit.

Without a directory argument the last directory you opened is used.`,
	Args: cobra.MaximumNArgs(1),
}

func init() {
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) > 0 {
			dir = args[0]
		}
		return run(dir)
	}

	cobra.OnInitialize(func() {
		if configFile != "" {
			config.SetPath(utils.ExpandHome(configFile))
		}
	})

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.notepane.yaml)")
	rootCmd.Flags().String("debug-log", "", "write debug output to this file")
	rootCmd.Flags().Bool("no-watch", false, "do not rescan the directory when files change")

	rootCmd.AddCommand(fileops.NotesCmd)
	rootCmd.AddCommand(config.ConfigCmd)
}

func run(dir string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// One-off flags override the loaded config without being persisted.
	if noWatch, _ := rootCmd.Flags().GetBool("no-watch"); noWatch {
		cfg.Watch = false
	}
	if logPath, _ := rootCmd.Flags().GetString("debug-log"); logPath != "" {
		cfg.DebugLog = logPath
	}

	if cfg.DebugLog != "" {
		if err := debug.Start(utils.ExpandHome(cfg.DebugLog)); err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer debug.Stop()
	}
	debug.Log(debug.APP, "notepane %s starting, config %s", config.Version, config.Path())

	st, err := settings.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	fs := store.NewOS()
	bridge := host.New(st, fs, 0)
	worker := session.NewWorker(session.New(notes.Scanner{}, fs, bridge), 0)
	bridge.Attach(worker)
	// Close drains pending ops and flushes the buffer one last time.
	defer worker.Close()

	var watcher *watch.DirectoryWatcher
	if cfg.Watch {
		watcher, err = watch.New(time.Duration(cfg.WatchDebounceMs) * time.Millisecond)
		if err != nil {
			debug.Log(debug.APP, "watcher disabled: %v", err)
			watcher = nil
		} else {
			defer watcher.Close()
		}
	}

	err = tui.Run(tui.Options{
		Worker:       worker,
		Bridge:       bridge,
		Watcher:      watcher,
		Renderer:     render.New(cfg.PreviewStyle),
		PreviewWidth: cfg.PreviewWidth,
		Start:        bridge.Start(dir),
	})
	worker.Close()
	printProblems(bridge)
	return err
}

// printProblems shows warnings left after the screen closed, such as a
// failed final save.
func printProblems(bridge *host.Bridge) {
	for {
		select {
		case n := <-bridge.Notices():
			if n.Level >= session.LevelWarn {
				utils.PrintError(n.String())
			}
		default:
			return
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
