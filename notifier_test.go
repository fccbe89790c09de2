// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle_test

import (
	"sync"
	"testing"

	"github.com/kodescript/scle"
)

type stubUpdater struct {
	mu          sync.Mutex
	invalidated []scle.FileKey
	focused     []scle.FileKey
}

func (u *stubUpdater) Invalidate(fileKey scle.FileKey) {
	u.mu.Lock()
	u.invalidated = append(u.invalidated, fileKey)
	u.mu.Unlock()
}

func (u *stubUpdater) EnsureUpToDateSuggested(fileKey scle.FileKey) {
	u.mu.Lock()
	u.focused = append(u.focused, fileKey)
	u.mu.Unlock()
}

func (u *stubUpdater) invalidatedCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()

	return len(u.invalidated)
}

func TestChangeNotifier(t *testing.T) {
	t.Parallel()

	t.Run("success - FileChanged invalidates", testChangeNotifierFileChanged)
	t.Run("success - FocusGained ensures suggested", testChangeNotifierFocusGained)
}

func testChangeNotifierFileChanged(t *testing.T) {
	t.Parallel()

	// arrange
	var (
		updater = &stubUpdater{}
		subject = scle.NewChangeNotifier(updater)
		fileKey = scle.NewFileKey("script.kts")
	)

	// act
	subject.FileChanged(fileKey)

	// assert
	assertEqual(t, 1, updater.invalidatedCount())
	assertEqual(t, fileKey, updater.invalidated[0])
}

func testChangeNotifierFocusGained(t *testing.T) {
	t.Parallel()

	// arrange
	var (
		updater = &stubUpdater{}
		subject = scle.NewChangeNotifier(updater)
		fileKey = scle.NewFileKey("script.kts")
	)

	// act
	subject.FocusGained(fileKey)

	// assert
	assertEqual(t, 1, len(updater.focused))
	assertEqual(t, fileKey, updater.focused[0])
}
