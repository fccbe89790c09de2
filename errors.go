// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle

import (
	"errors"
	"fmt"
)

// ErrDefinitionNotReady names the condition where the Script Definition
// Registry isn't ready yet. The engine itself never returns it: the reload
// decision is a silent no-op in that case, and a later readiness event
// re-triggers it.
var ErrDefinitionNotReady = errors.New("scle: script definition registry not ready")

// ErrNoPending is returned by ApplyPending when there is no pending
// configuration for the given file.
var ErrNoPending = errors.New("scle: no pending configuration for file")

// LoaderPanicError wraps a recovered panic value from a loader task: the
// worker catches it, treats the file as a transient failure, and reports
// it as a synthetic diagnostic rather than letting it take down the
// process.
type LoaderPanicError struct {
	File FileKey
	Rcvr any
}

// Error implements the standard go error interface.
func (e LoaderPanicError) Error() string {
	return fmt.Sprintf("scle: loader panicked for %q: %v", e.File, e.Rcvr)
}

// TransactionError wraps an error surfaced by the Indexer collaborator
// while committing a Reindex Transaction. This is fatal to that one apply:
// the configuration is not placed in the cache, the pending slot is
// cleared, and a diagnostic is surfaced.
type TransactionError struct {
	File FileKey
	Err  error
}

// Error implements the standard go error interface.
func (e TransactionError) Error() string {
	return fmt.Sprintf("scle: reindex transaction failed for %q: %v", e.File, e.Err)
}

// Unwrap allows errors.Is/As to reach the underlying indexer error.
func (e TransactionError) Unwrap() error {
	return e.Err
}
