// Copyright 2022 Bogdan Constantinescu.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/LICENSE.

package scle

import (
	"sync"
)

// Engine is the Updater / State Machine (C7): the per-editor-session
// coordinator that ties the Configuration Cache (C2), Pending Slot (C3),
// Background Executor (C4) and Loader Chain (C5) together behind the five
// entry points a host application calls.
//
// Construction follows an exported/unexported struct split (NewEngine +
// functional options, error return rather than panic) generalized from a
// single reloadable config map to one state machine per tracked script
// file.
type Engine struct {
	*engine
}

type engine struct {
	definitions ScriptDefinitionRegistry
	chain       ChainLoader

	live   LiveFileSource
	stamps StampProvider

	cache   ConfigurationCache
	pending PendingSlot
	store   *store

	executor *Executor
	metrics  *executorMetrics

	indexer       Indexer
	reportSink    ReportSink
	rehighlighter Rehighlighter
	panel         NotificationPanel
	settings      ScriptingSettings
	testMode      TestModeHook

	errorHandler func(fileKey FileKey, correlationID string, err error)
	correlationIDPrefix string

	saveLock        sync.Mutex
	lastDiagnostics map[FileKey][]Diagnostic
}

// EngineOption configures optional Engine collaborators and tunables.
type EngineOption func(*engine)

// WithLiveFileSource overrides the default OSLiveFileSource.
func WithLiveFileSource(live LiveFileSource) EngineOption {
	return func(e *engine) { e.live = live }
}

// WithStampProvider overrides the default ModTimeStampProvider.
func WithStampProvider(stamps StampProvider) EngineOption {
	return func(e *engine) { e.stamps = stamps }
}

// WithIndexer sets the Reindex Transaction (C8) collaborator.
func WithIndexer(indexer Indexer) EngineOption {
	return func(e *engine) { e.indexer = indexer }
}

// WithReportSink sets the diagnostics collaborator.
func WithReportSink(sink ReportSink) EngineOption {
	return func(e *engine) { e.reportSink = sink }
}

// WithRehighlighter sets the re-analysis collaborator.
func WithRehighlighter(r Rehighlighter) EngineOption {
	return func(e *engine) { e.rehighlighter = r }
}

// WithNotificationPanel sets the suggest-vs-apply notification collaborator.
func WithNotificationPanel(panel NotificationPanel) EngineOption {
	return func(e *engine) { e.panel = panel }
}

// WithScriptingSettings sets the auto-reload policy collaborator.
func WithScriptingSettings(settings ScriptingSettings) EngineOption {
	return func(e *engine) { e.settings = settings }
}

// WithTestMode sets the Test Mode Hook collaborator; while it reports
// enabled, auto-apply is unconditional. Drain is available on every Engine
// regardless of this hook.
func WithTestMode(hook TestModeHook) EngineOption {
	return func(e *engine) { e.testMode = hook }
}

// WithErrorHandler registers a callback invoked whenever a loader panics or
// a reindex transaction fails, in addition to the normal diagnostics path.
// Typically backed by NewXLogErrorHandler.
func WithErrorHandler(handler func(fileKey FileKey, correlationID string, err error)) EngineOption {
	return func(e *engine) { e.errorHandler = handler }
}

// WithMetrics registers Prometheus instrumentation for the Background
// Executor, built via NewExecutorMetrics.
func WithMetrics(metrics *executorMetrics) EngineOption {
	return func(e *engine) { e.metrics = metrics }
}

// NewEngine constructs an Engine around a required Script Definition
// Registry and Loader Chain, validating cfg and applying opts. A validation
// failure is a constructor error, never a runtime panic.
func NewEngine(
	definitions ScriptDefinitionRegistry,
	chain ChainLoader,
	cfg EngineConfig,
	opts ...EngineOption,
) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	st := newStore(cfg.CacheCapacity)
	e := &engine{
		definitions:         definitions,
		chain:               chain,
		live:                OSLiveFileSource{},
		stamps:              ModTimeStampProvider{},
		cache:               ConfigurationCache{s: st},
		pending:             PendingSlot{s: st},
		store:               st,
		indexer:             NopIndexer{},
		reportSink:          NopReportSink{},
		rehighlighter:       NopRehighlighter{},
		panel:               NopNotificationPanel{},
		settings:            NopScriptingSettings{},
		testMode:            testModeOff{},
		correlationIDPrefix: cfg.CorrelationIDPrefix,
		lastDiagnostics:     make(map[FileKey][]Diagnostic),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.executor = NewExecutor(e.handlePanic, e.metrics)

	return &Engine{e}, nil
}

// Close stops the Background Executor's worker goroutine.
func (e *Engine) Close() {
	e.executor.Close()
}

// Drain blocks until the Background Executor has no queued or running
// task left. Test-only wiring.
func (e *Engine) Drain() {
	e.executor.Drain()
}

// GetConfiguration implements entry point 1: it returns the currently
// cached configuration for fileKey, first running the reload decision if
// the entry is absent or stale. That schedules a load for an absent entry,
// or for a stale one only while the auto-reload or test-mode policy is
// enabled; otherwise the stale entry is returned as is and no load is
// scheduled. Never blocks except when a sync loader handles the file.
func (e *Engine) GetConfiguration(fileKey FileKey) (Configuration, bool) {
	if entry, ok := e.cache.Get(fileKey); !ok || !e.stamps.IsUpToDate(entry.Inputs, fileKey, e.live) {
		e.reloadDecision(fileKey, false)
	}

	entry, ok := e.cache.Get(fileKey)
	if !ok {
		return nil, false
	}

	return entry.Configuration, true
}

// Invalidate implements entry point 2: called by the Change Notifier (C6)
// on a document/editor event.
func (e *Engine) Invalidate(fileKey FileKey) {
	e.cache.MarkStale(fileKey)
	e.reloadDecision(fileKey, false)
}

// EnsureUpToDateSuggested implements entry point 3: called after a user
// edit. Unlike Invalidate, it forces a load even when the result would not
// be auto-applied, so the suggestion panel stays current.
func (e *Engine) EnsureUpToDateSuggested(fileKey FileKey) {
	e.cache.MarkStale(fileKey)
	e.reloadDecision(fileKey, true)
}

// HasPending implements entry point 5.
func (e *Engine) HasPending(fileKey FileKey) bool {
	return e.pending.Has(fileKey)
}

// ApplyPending implements entry point 4: the user-accept path. It
// atomically moves the Pending Slot entry into the Configuration Cache
// inside a reindex transaction and requests a rehighlight.
func (e *Engine) ApplyPending(fileKey FileKey) (bool, error) {
	loaded, ok := e.pending.Get(fileKey)
	if !ok {
		return false, ErrNoPending
	}

	if err := e.apply(fileKey, loaded); err != nil {
		return false, err
	}

	e.panel.Hide(fileKey)

	return true, nil
}

// apply acquires the save lock and delegates to applyLocked. It's the entry
// point for callers outside suggestOrSave's own critical section
// (ApplyPending): every apply, from whichever call site, is globally
// ordered by the same lock, so the Reindex Transaction's depth counter only
// ever sees real call-stack nesting, never two unrelated files' transactions
// interleaved across goroutines.
func (e *engine) apply(fileKey FileKey, loaded LoadedConfiguration) error {
	e.saveLock.Lock()
	defer e.saveLock.Unlock()

	return e.applyLocked(fileKey, loaded)
}

// applyLocked is apply's lock-free core, for callers (suggestOrSave) that
// already hold the save lock. It stores loaded into the cache inside a
// reindex transaction, rolling back the cache write if the transaction
// fails: a transaction failure means the configuration is never placed in
// the cache, and the previously applied entry (if any) stays in place.
func (e *engine) applyLocked(fileKey FileKey, loaded LoadedConfiguration) error {
	prev, hadPrev := e.cache.Get(fileKey)
	commit := e.indexer.BeginTransaction()
	e.cache.Put(fileKey, CachedEntry{Inputs: loaded.Inputs, Configuration: loaded.Configuration})

	if err := commit(); err != nil {
		if hadPrev {
			e.cache.Put(fileKey, prev)
		} else {
			e.cache.Remove(fileKey)
		}
		e.pending.Remove(fileKey)
		txErr := TransactionError{File: fileKey, Err: err}
		correlationID := newCorrelationID(e.correlationIDPrefix)
		e.recordDiagnosticsLocked(fileKey, stampDiagnostics(appendDiagnostic(loaded.Diagnostics, SeverityError, txErr.Error()), correlationID))
		if e.errorHandler != nil {
			e.errorHandler(fileKey, correlationID, txErr)
		}

		return txErr
	}

	e.metrics.incApply()
	e.rehighlighter.Rehighlight(fileKey)

	return nil
}

// reloadDecision implements the reload-decision algorithm: script-
// definition readiness, up-to-date short-circuit, shouldLoad, and
// sync-then-async dispatch.
func (e *engine) reloadDecision(fileKey FileKey, loadEvenWillNotBeApplied bool) {
	if !e.definitions.IsReady() {
		return
	}

	entry, hasEntry := e.cache.Get(fileKey)
	if hasEntry && e.stamps.IsUpToDate(entry.Inputs, fileKey, e.live) {
		return
	}

	isFirstLoad := !hasEntry
	shouldLoad := isFirstLoad || loadEvenWillNotBeApplied || e.autoApplyPolicyEnabled()
	if !shouldLoad {
		return
	}

	def, found := e.definitions.FindDefinition(fileKey)
	if !found {
		return
	}

	ctx := loadingContext{engine: e}
	if e.chain.RunSync(isFirstLoad, fileKey, def, ctx) {
		return
	}

	e.executor.EnsureScheduled(fileKey, e.backgroundTask(fileKey, def, ctx))
}

// backgroundTask builds the Task run inside the worker for fileKey: a
// staleness re-check that makes ABA-oscillation free, a pending re-
// suggest, and otherwise the async loader dispatch.
func (e *engine) backgroundTask(fileKey FileKey, def ScriptDefinition, ctx loadingContext) Task {
	return func() {
		// a. re-read the cache; a coalesced A -> B -> A edit inside the
		// queue window means the live file already matches what's cached.
		if cached, ok := e.cache.Get(fileKey); ok && e.stamps.IsUpToDate(cached.Inputs, fileKey, e.live) {
			return
		}

		// b. a pending suggestion whose stamp still matches the live file is
		// re-raised rather than recomputed.
		if prev, ok := e.pending.Get(fileKey); ok && e.stamps.IsUpToDate(prev.Inputs, fileKey, e.live) {
			ctx.SuggestNewConfiguration(fileKey, prev)

			return
		}

		// c. stale pending entry is discarded; run the first applicable
		// async loader.
		e.pending.Remove(fileKey)
		_, hasEntry := e.cache.Get(fileKey)
		e.chain.RunAsync(!hasEntry, fileKey, def, ctx)
	}
}

func (e *engine) autoApplyPolicyEnabled() bool {
	return e.settings.AutoReloadEnabled() || e.testMode.Enabled()
}

// handlePanic is the Background Executor's onPanic hook: a loader panic is
// treated as a transient failure for that file, surfaced only as a
// synthetic diagnostic, never placed in the cache.
func (e *engine) handlePanic(fileKey FileKey, rcvr any) {
	err := LoaderPanicError{File: fileKey, Rcvr: rcvr}
	correlationID := newCorrelationID(e.correlationIDPrefix)
	if e.errorHandler != nil {
		e.errorHandler(fileKey, correlationID, err)
	}
	e.recordDiagnostics(fileKey, []Diagnostic{{Severity: SeverityError, Message: err.Error(), Correlation: correlationID}})
}

// loadingContext implements LoadingContext, routing a loader's result back
// into the engine's suggest-or-save algorithm.
type loadingContext struct {
	engine *engine
}

// SuggestNewConfiguration implements LoadingContext.
func (c loadingContext) SuggestNewConfiguration(fileKey FileKey, loaded LoadedConfiguration) {
	c.engine.suggestOrSave(fileKey, loaded, true)
}

// SaveNewConfiguration implements LoadingContext.
func (c loadingContext) SaveNewConfiguration(fileKey FileKey, loaded LoadedConfiguration) {
	c.engine.suggestOrSave(fileKey, loaded, false)
}

// suggestOrSave implements the suggest-or-save algorithm, serialized by
// the save lock so concurrent load completions for different files never
// interleave notification bookkeeping.
func (e *engine) suggestOrSave(fileKey FileKey, loaded LoadedConfiguration, viaSuggest bool) {
	e.saveLock.Lock()
	defer e.saveLock.Unlock()

	correlationID := newCorrelationID(e.correlationIDPrefix)
	e.recordDiagnosticsLocked(fileKey, stampDiagnostics(loaded.Diagnostics, correlationID))

	if loaded.Configuration == nil {
		return
	}

	old, hadOld := e.cache.Get(fileKey)
	if hadOld && old.Configuration != nil && old.Configuration.Equal(loaded.Configuration) {
		// P3: equal configuration never notifies nor opens a transaction;
		// only the freshness stamp is refreshed.
		e.panel.Hide(fileKey)
		e.cache.Put(fileKey, CachedEntry{Inputs: loaded.Inputs, Configuration: old.Configuration})

		return
	}

	autoApply := !viaSuggest || !hadOld || e.autoApplyPolicyEnabled()
	if autoApply {
		e.panel.Hide(fileKey)
		if err := e.applyLocked(fileKey, loaded); err != nil {
			return
		}

		return
	}

	e.metrics.incSuggest()
	e.pending.Put(fileKey, loaded)
	e.panel.Show(fileKey,
		func() { _, _ = e.asEngine().ApplyPending(fileKey) },
		func() {
			e.pending.Remove(fileKey)
			e.panel.Hide(fileKey)
			e.metrics.incDismiss()
		},
	)
}

// asEngine lets the unexported engine reach the public Engine wrapper's
// methods (ApplyPending) from a closure without duplicating its logic.
func (e *engine) asEngine() *Engine {
	return &Engine{e}
}

// recordDiagnostics acquires the save lock before delegating to
// recordDiagnosticsLocked; used by callers outside suggestOrSave's own
// critical section (handlePanic).
func (e *engine) recordDiagnostics(fileKey FileKey, diagnostics []Diagnostic) {
	e.saveLock.Lock()
	defer e.saveLock.Unlock()
	e.recordDiagnosticsLocked(fileKey, diagnostics)
}

// recordDiagnosticsLocked persists diagnostics and requests a rehighlight
// only when they actually changed, ignoring each
// Diagnostic's Correlation field (which changes on every decision by
// design and would otherwise defeat the comparison).
func (e *engine) recordDiagnosticsLocked(fileKey FileKey, diagnostics []Diagnostic) {
	if diagnosticsEqual(e.lastDiagnostics[fileKey], diagnostics) {
		return
	}

	e.lastDiagnostics[fileKey] = diagnostics
	e.reportSink.Attach(fileKey, diagnostics)
	e.rehighlighter.Rehighlight(fileKey)
}

func diagnosticsEqual(a, b []Diagnostic) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Severity != b[i].Severity || a[i].Message != b[i].Message {
			return false
		}
	}

	return true
}

func stampDiagnostics(diagnostics []Diagnostic, correlationID string) []Diagnostic {
	if len(diagnostics) == 0 {
		return diagnostics
	}

	stamped := make([]Diagnostic, len(diagnostics))
	for i, d := range diagnostics {
		d.Correlation = correlationID
		stamped[i] = d
	}

	return stamped
}

func appendDiagnostic(diagnostics []Diagnostic, severity Severity, message string) []Diagnostic {
	out := make([]Diagnostic, 0, len(diagnostics)+1)
	out = append(out, diagnostics...)
	out = append(out, Diagnostic{Severity: severity, Message: message})

	return out
}
