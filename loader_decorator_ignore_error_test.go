// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle_test

import (
	"errors"
	"os"
	"testing"

	"github.com/kodescript/scle"
)

func TestIgnoreErrorRawLoader(t *testing.T) {
	t.Parallel()

	t.Run("success - decorated loader err is ignored", testIgnoreErrorRawLoaderErrorIsIgnored)
	t.Run("success - decorated loader err is not ignored", testIgnoreErrorRawLoaderErrorIsNotIgnored)
	t.Run("success - decorated loader returns no err", testIgnoreErrorRawLoaderWithNoError)
}

func testIgnoreErrorRawLoaderErrorIsIgnored(t *testing.T) {
	t.Parallel()

	// arrange
	var (
		fileKey = scle.NewFileKey("script.kts")
		def     scle.ScriptDefinition
		loader  = scle.RawLoaderFunc(func(scle.FileKey, scle.ScriptDefinition) (scle.LoadedConfiguration, error) {
			return scle.LoadedConfiguration{}, os.ErrNotExist
		})
		subject = scle.IgnoreErrorRawLoader(loader, os.ErrInvalid, os.ErrNotExist)
	)

	// act
	loaded, err := subject.Load(fileKey, def)

	// assert
	assertNil(t, err)
	assertNil(t, loaded.Configuration)
	assertEqual(t, 0, len(loaded.Diagnostics))
}

func testIgnoreErrorRawLoaderErrorIsNotIgnored(t *testing.T) {
	t.Parallel()

	// arrange
	var (
		fileKey     = scle.NewFileKey("script.kts")
		def         scle.ScriptDefinition
		expectedErr = errors.New("intentionally triggered some other type of error")
		loader      = scle.RawLoaderFunc(func(scle.FileKey, scle.ScriptDefinition) (scle.LoadedConfiguration, error) {
			return scle.LoadedConfiguration{}, expectedErr
		})
		subject = scle.IgnoreErrorRawLoader(loader, os.ErrInvalid, os.ErrNotExist)
	)

	// act
	loaded, err := subject.Load(fileKey, def)

	// assert
	assertTrue(t, errors.Is(err, expectedErr))
	assertNil(t, loaded.Configuration)
}

func testIgnoreErrorRawLoaderWithNoError(t *testing.T) {
	t.Parallel()

	// arrange
	var (
		fileKey        = scle.NewFileKey("script.kts")
		def            scle.ScriptDefinition
		expectedConfig = scle.StringConfiguration("value")
		loader         = scle.RawLoaderFunc(func(scle.FileKey, scle.ScriptDefinition) (scle.LoadedConfiguration, error) {
			return scle.LoadedConfiguration{Configuration: expectedConfig}, nil
		})
		subject = scle.IgnoreErrorRawLoader(loader, os.ErrInvalid, os.ErrNotExist)
	)

	// act
	loaded, err := subject.Load(fileKey, def)

	// assert
	assertNil(t, err)
	assertEqual(t, expectedConfig, loaded.Configuration)
}

func BenchmarkIgnoreErrorRawLoader(b *testing.B) {
	var (
		fileKey = scle.NewFileKey("script.kts")
		def     scle.ScriptDefinition
		loader  = scle.RawLoaderFunc(func(scle.FileKey, scle.ScriptDefinition) (scle.LoadedConfiguration, error) {
			return scle.LoadedConfiguration{}, os.ErrNotExist
		})
		subject = scle.IgnoreErrorRawLoader(loader, os.ErrInvalid, os.ErrNotExist)
	)

	b.ReportAllocs()
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		_, _ = subject.Load(fileKey, def)
	}
}
