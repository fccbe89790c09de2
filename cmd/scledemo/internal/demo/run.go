// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package demo

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/kodescript/scle"
)

// NewRunCommand builds the "run" subcommand: it loads every file in --dir
// through an Engine, optionally rewrites one file to simulate an edit, and
// optionally accepts or dismisses the suggestion that produces, printing
// each step to stdout. It's a single-process walkthrough of the reload
// decision and suggest-or-save algorithm, not a long-lived daemon.
func NewRunCommand() *cobra.Command {
	var (
		dir        string
		editFile   string
		editText   string
		accept     bool
		dismiss    bool
		autoReload bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a directory of script files through the configuration loading engine.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.OutOrStdout(), runOptions{
				dir:        dir,
				editFile:   editFile,
				editText:   editText,
				accept:     accept,
				dismiss:    dismiss,
				autoReload: autoReload,
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory of script files to track (required)")
	cmd.Flags().StringVar(&editFile, "edit", "", "name of a file under --dir to rewrite, simulating a user edit")
	cmd.Flags().StringVar(&editText, "edit-text", "edited\n", "content written to --edit")
	cmd.Flags().BoolVar(&accept, "accept", false, "accept the suggestion produced by --edit, if any")
	cmd.Flags().BoolVar(&dismiss, "dismiss", false, "dismiss the suggestion produced by --edit, if any")
	cmd.Flags().BoolVar(&autoReload, "auto-reload", false, "enable the auto-reload policy, bypassing suggestion")
	_ = cmd.MarkFlagRequired("dir")

	return cmd
}

type runOptions struct {
	dir        string
	editFile   string
	editText   string
	accept     bool
	dismiss    bool
	autoReload bool
}

// staticSettings is a ScriptingSettings fixed at construction time, letting
// --auto-reload drive the same policy knob a real host's settings UI would.
type staticSettings struct{ enabled bool }

func (s staticSettings) AutoReloadEnabled() bool { return s.enabled }

func run(out io.Writer, opts runOptions) error {
	registry, err := newDirRegistry(opts.dir)
	if err != nil {
		return err
	}

	panel := newConsolePanel(out)
	sink := newConsoleReportSink(out)

	raw := scle.RawLoaderFunc(func(fileKey scle.FileKey, _ scle.ScriptDefinition) (scle.LoadedConfiguration, error) {
		content, err := os.ReadFile(fileKey.String())
		if err != nil {
			return scle.LoadedConfiguration{}, err
		}

		stamp, err := scle.ModTimeStampProvider{}.Capture(fileKey, scle.OSLiveFileSource{})
		if err != nil {
			return scle.LoadedConfiguration{}, err
		}

		return scle.LoadedConfiguration{
			Inputs:        stamp,
			Configuration: scle.StringConfiguration(content),
		}, nil
	})

	// The demo loader always runs asynchronously and routes through
	// suggestion - the shape fitting a loader that runs user code or an
	// external process, here reading a script a user is actively editing.
	chain := scle.NewChainLoader(scle.NewAsyncSuggestLoader(raw))

	engine, err := scle.NewEngine(
		registry,
		chain,
		scle.DefaultEngineConfig(),
		scle.WithNotificationPanel(panel),
		scle.WithReportSink(sink),
		scle.WithScriptingSettings(staticSettings{enabled: opts.autoReload}),
	)
	if err != nil {
		return fmt.Errorf("scledemo: %w", err)
	}
	defer engine.Close()

	for _, fileKey := range registry.fileKeys() {
		printStatus(out, engine, fileKey)
	}

	if opts.editFile == "" {
		return nil
	}

	editKey := findByName(registry, opts.editFile)
	if editKey == (scle.FileKey{}) {
		return fmt.Errorf("scledemo: %s is not tracked under %s", opts.editFile, opts.dir)
	}

	if err := os.WriteFile(editKey.String(), []byte(opts.editText), 0o644); err != nil {
		return fmt.Errorf("scledemo: writing edit: %w", err)
	}

	fmt.Fprintf(out, "edit: %s\n", editKey)
	engine.EnsureUpToDateSuggested(editKey)
	engine.Drain()

	switch {
	case opts.accept:
		panel.accept(editKey)
	case opts.dismiss:
		panel.dismiss(editKey)
	}

	printStatus(out, engine, editKey)

	return nil
}

func printStatus(out io.Writer, engine *scle.Engine, fileKey scle.FileKey) {
	_, _ = engine.GetConfiguration(fileKey) // schedules a load if absent, or if stale under --auto-reload
	engine.Drain()
	cfg, ok := engine.GetConfiguration(fileKey)
	if !ok {
		fmt.Fprintf(out, "status: %s not yet loaded\n", fileKey)

		return
	}

	size := len(cast.ToString(string(cfg.(scle.StringConfiguration))))
	fmt.Fprintf(out, "status: %s loaded, %s bytes, pending=%t\n", fileKey, cast.ToString(size), engine.HasPending(fileKey))
}

func findByName(registry *dirRegistry, name string) scle.FileKey {
	want := filepath.Join(registry.dir, name)
	for fileKey := range registry.files {
		if fileKey.String() == name || fileKey.String() == want {
			return fileKey
		}
	}

	return scle.FileKey{}
}
