// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle_test

import (
	"strings"
	"testing"
	"time"

	"github.com/kodescript/scle"
)

func TestExternalResolverLoader(t *testing.T) {
	t.Parallel()

	t.Run("success - valid resolver output", testExternalResolverLoaderSuccess)
	t.Run("error - resolver exits non-zero", testExternalResolverLoaderExitFailure)
	t.Run("error - malformed resolver output", testExternalResolverLoaderMalformedOutput)
	t.Run("error - empty command", testExternalResolverLoaderEmptyCommand)
}

func testExternalResolverLoaderSuccess(t *testing.T) {
	t.Parallel()

	// arrange
	fileKey := scle.NewFileKey("script.kts")
	live := newMemLiveFileSource()
	live.write(fileKey, "irrelevant")
	subject := scle.ExternalResolverLoader{
		Command: func(fileKey scle.FileKey) []string {
			return []string{"sh", "-c", `echo '{"value":"resolved-token"}'`}
		},
		Timeout: 2 * time.Second,
		Live:    live,
	}

	// act
	loaded, err := subject.Load(fileKey, scle.ScriptDefinition{})

	// assert
	assertNil(t, err)
	assertEqual(t, scle.StringConfiguration("resolved-token"), loaded.Configuration)
	assertNotNil(t, loaded.Inputs)
}

func testExternalResolverLoaderExitFailure(t *testing.T) {
	t.Parallel()

	// arrange
	fileKey := scle.NewFileKey("script.kts")
	live := newMemLiveFileSource()
	live.write(fileKey, "irrelevant")
	subject := scle.ExternalResolverLoader{
		Command: func(fileKey scle.FileKey) []string {
			return []string{"sh", "-c", `echo 'boom' 1>&2; exit 1`}
		},
		Live: live,
	}

	// act
	_, err := subject.Load(fileKey, scle.ScriptDefinition{})

	// assert
	assertTrue(t, err != nil)
	assertTrue(t, strings.Contains(err.Error(), "boom"))
}

func testExternalResolverLoaderMalformedOutput(t *testing.T) {
	t.Parallel()

	// arrange
	fileKey := scle.NewFileKey("script.kts")
	live := newMemLiveFileSource()
	live.write(fileKey, "irrelevant")
	subject := scle.ExternalResolverLoader{
		Command: func(fileKey scle.FileKey) []string {
			return []string{"sh", "-c", `echo 'not json'`}
		},
		Live: live,
	}

	// act
	_, err := subject.Load(fileKey, scle.ScriptDefinition{})

	// assert
	assertTrue(t, err != nil)
}

func testExternalResolverLoaderEmptyCommand(t *testing.T) {
	t.Parallel()

	// arrange
	fileKey := scle.NewFileKey("script.kts")
	live := newMemLiveFileSource()
	live.write(fileKey, "irrelevant")
	subject := scle.ExternalResolverLoader{
		Command: func(fileKey scle.FileKey) []string { return nil },
		Live:    live,
	}

	// act
	_, err := subject.Load(fileKey, scle.ScriptDefinition{})

	// assert
	assertTrue(t, err != nil)
}
