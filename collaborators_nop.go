// Copyright 2022 Bogdan Constantinescu.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/LICENSE.

package scle

// NopReportSink is a no-operation ReportSink, for embedders that don't
// surface diagnostics anywhere.
type NopReportSink struct{}

// Attach does nothing.
func (NopReportSink) Attach(_ FileKey, _ []Diagnostic) {}

// NopRehighlighter is a no-operation Rehighlighter.
type NopRehighlighter struct{}

// Rehighlight does nothing.
func (NopRehighlighter) Rehighlight(_ FileKey) {}

// NopNotificationPanel is a no-operation NotificationPanel: Show discards
// both callbacks, Has always reports false. Suitable for an engine run
// with autoReload/testMode enabled, where suggestions never happen.
type NopNotificationPanel struct{}

// Show does nothing.
func (NopNotificationPanel) Show(_ FileKey, _ func(), _ func()) {}

// Hide does nothing.
func (NopNotificationPanel) Hide(_ FileKey) {}

// Has always returns false.
func (NopNotificationPanel) Has(_ FileKey) bool { return false }

// NopScriptingSettings disables auto-reload.
type NopScriptingSettings struct{}

// AutoReloadEnabled always returns false.
func (NopScriptingSettings) AutoReloadEnabled() bool { return false }

// NopIndexer is a no-operation Indexer: transactions commit for free.
type NopIndexer struct{}

// BeginTransaction returns a commit function that does nothing.
func (NopIndexer) BeginTransaction() func() error {
	return func() error { return nil }
}
