// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle

// FileKey is the opaque, comparable identity of a tracked script file.
// It stays stable across edits of the file's contents, which is what lets
// it be used as a map key throughout the engine.
type FileKey struct {
	path string
}

// NewFileKey builds a FileKey from a stable path-like identifier.
// Two FileKeys built from the same path compare equal.
func NewFileKey(path string) FileKey {
	return FileKey{path: path}
}

// String returns the underlying identifier, useful for logging.
func (k FileKey) String() string {
	return k.path
}

// InputsStamp is an opaque value representing the content-derived identity
// of a script file at a moment in time. The core only ever compares stamps
// for equality; freshness against the live file is delegated to a
// StampProvider (see stamp.go).
type InputsStamp interface {
	// Equal reports whether two stamps represent the same captured inputs.
	Equal(other InputsStamp) bool
}

// Configuration is the opaque payload consumed by downstream analysis.
// Equality must be defined and cheap: it drives the "equal configurations
// never notify" rule in the suggest-or-save algorithm.
type Configuration interface {
	// Equal reports whether two configurations are interchangeable.
	Equal(other Configuration) bool
}

// StringConfiguration is a trivial Configuration used by tests, examples,
// and loaders whose "configuration" really is just a single opaque token
// (a build-tool classpath id, a resolver cache key, etc.).
type StringConfiguration string

// Equal implements Configuration.
func (s StringConfiguration) Equal(other Configuration) bool {
	o, ok := other.(StringConfiguration)

	return ok && o == s
}

// Severity classifies a Diagnostic.
type Severity int

const (
	// SeverityInfo is an informational diagnostic.
	SeverityInfo Severity = iota
	// SeverityWarning is a non-fatal diagnostic.
	SeverityWarning
	// SeverityError is a diagnostic reporting a load failure.
	SeverityError
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a single report emitted by a loader about a load attempt.
type Diagnostic struct {
	Severity Severity
	Message  string
	// Correlation is a uuid string (optionally prefixed) stamped by the
	// Updater on each suggest-or-save decision. For a loader panic or a
	// failed reindex transaction it is the same id passed to the engine's
	// error handler, tying the diagnostic to that log line.
	Correlation string
}

// LoadedConfiguration is the outcome of one loader invocation.
// Configuration == nil is a valid outcome (reports only) and must never
// overwrite a previously applied configuration.
type LoadedConfiguration struct {
	Inputs        InputsStamp
	Configuration Configuration
	Diagnostics   []Diagnostic
}

// CachedEntry is what lives in the Configuration Cache (C2) once a
// configuration has been successfully applied.
type CachedEntry struct {
	Inputs        InputsStamp
	Configuration Configuration
}
