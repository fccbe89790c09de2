// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

// Package demo wires a Script Configuration Loading Engine against a real
// directory of script files, for the scledemo command line tool.
package demo

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/kodescript/scle"
)

// dirRegistry is a ScriptDefinitionRegistry backed by a directory scanned
// once at startup: every regular file directly under dir is a tracked
// script. It never becomes un-ready once built.
type dirRegistry struct {
	dir   string
	files map[scle.FileKey]scle.ScriptDefinition
}

func newDirRegistry(dir string) (*dirRegistry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scledemo: reading %s: %w", dir, err)
	}

	files := make(map[scle.FileKey]scle.ScriptDefinition, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		files[scle.NewFileKey(path)] = scle.ScriptDefinition{Value: entry.Name()}
	}

	return &dirRegistry{dir: dir, files: files}, nil
}

// IsReady implements scle.ScriptDefinitionRegistry.
func (r *dirRegistry) IsReady() bool { return true }

// FindDefinition implements scle.ScriptDefinitionRegistry.
func (r *dirRegistry) FindDefinition(fileKey scle.FileKey) (scle.ScriptDefinition, bool) {
	def, ok := r.files[fileKey]

	return def, ok
}

// fileKeys returns every tracked FileKey, sorted for stable demo output.
func (r *dirRegistry) fileKeys() []scle.FileKey {
	keys := make([]scle.FileKey, 0, len(r.files))
	for k := range r.files {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	return keys
}

// consolePanel is a NotificationPanel that prints suggest/hide events to out
// and remembers the accept/dismiss callbacks, so the run command can drive
// them on behalf of a simulated user. Per the core's design notes, a
// NotificationPanel must hold only a non-owning reference back to the
// engine - accept/dismiss post a message rather than call back directly,
// which is why both callbacks it is given take no arguments.
type consolePanel struct {
	out io.Writer

	mu        sync.Mutex
	onAccept  map[scle.FileKey]func()
	onDismiss map[scle.FileKey]func()
}

func newConsolePanel(out io.Writer) *consolePanel {
	return &consolePanel{
		out:       out,
		onAccept:  make(map[scle.FileKey]func()),
		onDismiss: make(map[scle.FileKey]func()),
	}
}

// Show implements scle.NotificationPanel.
func (p *consolePanel) Show(fileKey scle.FileKey, onAccept func(), onDismiss func()) {
	p.mu.Lock()
	p.onAccept[fileKey] = onAccept
	p.onDismiss[fileKey] = onDismiss
	p.mu.Unlock()

	fmt.Fprintf(p.out, "suggest: %s has a new configuration pending your review\n", fileKey)
}

// Hide implements scle.NotificationPanel.
func (p *consolePanel) Hide(fileKey scle.FileKey) {
	p.mu.Lock()
	_, wasShown := p.onAccept[fileKey]
	delete(p.onAccept, fileKey)
	delete(p.onDismiss, fileKey)
	p.mu.Unlock()

	if wasShown {
		fmt.Fprintf(p.out, "hide: %s\n", fileKey)
	}
}

// Has implements scle.NotificationPanel.
func (p *consolePanel) Has(fileKey scle.FileKey) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.onAccept[fileKey]

	return ok
}

// accept simulates the user accepting the currently shown panel for
// fileKey; a no-op if nothing is shown for that key.
func (p *consolePanel) accept(fileKey scle.FileKey) {
	p.mu.Lock()
	cb := p.onAccept[fileKey]
	p.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// dismiss simulates the user dismissing the currently shown panel for
// fileKey; a no-op if nothing is shown for that key.
func (p *consolePanel) dismiss(fileKey scle.FileKey) {
	p.mu.Lock()
	cb := p.onDismiss[fileKey]
	p.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// consoleReportSink prints attached diagnostics to out, mirroring how an
// editor's problems panel would surface them.
type consoleReportSink struct {
	out io.Writer
}

func newConsoleReportSink(out io.Writer) *consoleReportSink {
	return &consoleReportSink{out: out}
}

// Attach implements scle.ReportSink.
func (s *consoleReportSink) Attach(fileKey scle.FileKey, diagnostics []scle.Diagnostic) {
	for _, d := range diagnostics {
		fmt.Fprintf(s.out, "%s: [%s] %s\n", fileKey, d.Severity, d.Message)
	}
}
