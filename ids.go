// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle

import "github.com/google/uuid"

// newCorrelationID mints a fresh id for one suggest-or-save decision, loader
// panic or failed reindex transaction. For a panic or a failed transaction
// the same id goes to both the diagnostic and the error handler, so a
// user-visible diagnostic can be tied back to the log line that produced it.
func newCorrelationID(prefix string) string {
	id := uuid.New().String()
	if prefix == "" {
		return id
	}

	return prefix + "-" + id
}
