// Copyright 2022 Bogdan Constantinescu.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/LICENSE.

package scle

import "sync"

// ScriptDefinition is an opaque descriptor the Script Definition Registry
// hands back for a FileKey. The core never inspects it beyond passing it to
// the Loader Chain.
type ScriptDefinition struct {
	// Value is loader-specific payload (resolver command, classpath hints,
	// whatever a concrete ScriptDefinitionRegistry wants to carry).
	Value any
}

// ScriptDefinitionRegistry is the first external collaborator consulted on
// every reload decision. The core is a no-op until IsReady.
type ScriptDefinitionRegistry interface {
	IsReady() bool
	FindDefinition(fileKey FileKey) (ScriptDefinition, bool)
}

// Indexer exposes the scoped Reindex Transaction (C8): a batching context
// in which root-set mutations performed during one or more configuration
// applies are indexed exactly once at scope exit.
type Indexer interface {
	// BeginTransaction starts (or joins, if already inside one on this
	// goroutine's logical scope) a reindex transaction and returns a commit
	// function to call at scope exit.
	BeginTransaction() (commit func() error)
}

// ReportSink is where the engine writes load diagnostics; other
// subsystems read from it.
type ReportSink interface {
	Attach(fileKey FileKey, diagnostics []Diagnostic)
}

// Rehighlighter requests re-analysis of a given file.
type Rehighlighter interface {
	Rehighlight(fileKey FileKey)
}

// NotificationPanel shows/hides the "apply this new configuration?" panel.
// It must hold only a non-owning reference back to the engine: accept/
// dismiss post a message rather than call back directly, which is why both
// callbacks here take no arguments - the FileKey is already bound by
// whoever constructed them.
type NotificationPanel interface {
	Show(fileKey FileKey, onAccept func(), onDismiss func())
	Hide(fileKey FileKey)
	Has(fileKey FileKey) bool
}

// ScriptingSettings exposes user-controlled policy knobs.
type ScriptingSettings interface {
	AutoReloadEnabled() bool
}

// TestModeHook makes auto-apply unconditional while Enabled reports true,
// for deterministic tests.
type TestModeHook interface {
	Enabled() bool
}

// testModeOff is the default TestModeHook: never forces auto-apply.
type testModeOff struct{}

func (testModeOff) Enabled() bool { return false }

// reindexState tracks reentrant Reindex Transaction scopes (C8). Nested
// BeginTransaction calls collapse into the outermost scope; only the
// outermost commit actually triggers indexing - all root-set mutations
// performed inside one scope are indexed exactly once at scope exit,
// regardless of how many applies happened inside.
type reindexState struct {
	mu    sync.Mutex
	depth int
	index func() error
}

// NewFuncIndexer builds an Indexer out of a plain "run one indexing pass"
// function - the common case where the collaborator doesn't need anything
// fancier than "call this when it's time to reindex".
func NewFuncIndexer(index func() error) Indexer {
	return &reindexState{index: index}
}

// BeginTransaction implements Indexer.
func (r *reindexState) BeginTransaction() func() error {
	r.mu.Lock()
	r.depth++
	isOutermost := r.depth == 1
	r.mu.Unlock()

	return func() error {
		r.mu.Lock()
		r.depth--
		shouldIndex := isOutermost && r.depth == 0
		r.mu.Unlock()

		if shouldIndex && r.index != nil {
			return r.index()
		}

		return nil
	}
}
