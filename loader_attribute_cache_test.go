// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kodescript/scle"
)

type stubLiveFileSource struct {
	modTime int64
}

func (s stubLiveFileSource) ModTime(scle.FileKey) (int64, error) { return s.modTime, nil }
func (s stubLiveFileSource) Content(scle.FileKey) ([]byte, error) { return nil, nil }

func TestAttributeCacheLoader(t *testing.T) {
	t.Parallel()

	t.Run("success - json round trip", testAttributeCacheLoaderJSONRoundTrip)
	t.Run("success - yaml round trip", testAttributeCacheLoaderYAMLRoundTrip)
	t.Run("error - missing side file", testAttributeCacheLoaderMissingSideFile)
}

func testAttributeCacheLoaderJSONRoundTrip(t *testing.T) {
	t.Parallel()

	// arrange
	var (
		dir     = t.TempDir()
		fileKey = scle.NewFileKey(filepath.Join(dir, "script.kts"))
		live    = stubLiveFileSource{modTime: 1234}
		subject = scle.NewJSONAttributeCacheLoader(".scle.json", live)
	)

	err := subject.Persist(fileKey, "resolved-classpath")
	assertNil(t, err)

	// act
	loaded, err := subject.Load(fileKey, scle.ScriptDefinition{})

	// assert
	assertNil(t, err)
	assertEqual(t, scle.StringConfiguration("resolved-classpath"), loaded.Configuration)
	assertTrue(t, loaded.Inputs.Equal(scle.NewModTimeStamp(1234)))
}

func testAttributeCacheLoaderYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	// arrange
	var (
		dir     = t.TempDir()
		fileKey = scle.NewFileKey(filepath.Join(dir, "script.kts"))
		live    = stubLiveFileSource{modTime: 5678}
		subject = scle.NewYAMLAttributeCacheLoader(".scle.yaml", live)
	)

	err := subject.Persist(fileKey, "resolved-classpath")
	assertNil(t, err)

	// act
	loaded, err := subject.Load(fileKey, scle.ScriptDefinition{})

	// assert
	assertNil(t, err)
	assertEqual(t, scle.StringConfiguration("resolved-classpath"), loaded.Configuration)
}

func testAttributeCacheLoaderMissingSideFile(t *testing.T) {
	t.Parallel()

	// arrange
	var (
		dir     = t.TempDir()
		fileKey = scle.NewFileKey(filepath.Join(dir, "script.kts"))
		live    = stubLiveFileSource{modTime: 1}
		subject = scle.NewJSONAttributeCacheLoader(".scle.json", live)
	)

	// act
	_, err := subject.Load(fileKey, scle.ScriptDefinition{})

	// assert
	assertTrue(t, errors.Is(err, os.ErrNotExist))
}
