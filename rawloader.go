// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle

import "github.com/actforgood/xerr"

// RawLoader performs the actual work of producing a LoadedConfiguration for
// one file. It's an opaque strategy to the core: it doesn't care whether a
// RawLoader hashes a file, shells out to a resolver process, or reads a
// side-cache file - only whether it runs in background and whether its
// result should be saved directly or suggested.
type RawLoader interface {
	Load(fileKey FileKey, def ScriptDefinition) (LoadedConfiguration, error)
}

// The RawLoaderFunc type is an adapter to allow the use of ordinary
// functions as RawLoaders, mirroring the original xconf package's
// LoaderFunc adapter.
type RawLoaderFunc func(fileKey FileKey, def ScriptDefinition) (LoadedConfiguration, error)

// Load calls fn.
func (fn RawLoaderFunc) Load(fileKey FileKey, def ScriptDefinition) (LoadedConfiguration, error) {
	return fn(fileKey, def)
}

// errorToDiagnostic turns a RawLoader error into a LoadedConfiguration
// carrying only a diagnostic - Configuration stays nil, so suggestOrSave's
// "no Configuration" early return keeps the cache untouched, treating the
// failure as transient rather than as an applied empty configuration.
func errorToDiagnostic(loaded LoadedConfiguration, err error) LoadedConfiguration {
	if err == nil {
		return loaded
	}

	return LoadedConfiguration{
		Inputs:      loaded.Inputs,
		Diagnostics: append(loaded.Diagnostics, Diagnostic{Severity: SeverityError, Message: err.Error()}),
	}
}

// rawConfigLoader adapts a RawLoader into the ConfigLoader contract the
// Loader Chain (C5) drives. It always "handles" the file, so a ChainLoader
// never tries a later loader after it: falling back from one RawLoader to
// another on error is done by composing them with FallbackRawLoader before
// adapting - this adapter itself never reports "unhandled" once invoked.
type rawConfigLoader struct {
	raw        RawLoader
	background bool
	suggest    bool // false => SaveNewConfiguration, true => SuggestNewConfiguration
}

// NewSyncSaveLoader builds a synchronous ConfigLoader that saves raw's
// result directly, bypassing suggestion. Use for trusted sources (an
// attribute cache, a previously-validated side channel).
func NewSyncSaveLoader(raw RawLoader) ConfigLoader {
	return rawConfigLoader{raw: raw}
}

// NewSyncSuggestLoader builds a synchronous ConfigLoader that routes raw's
// result through suggestion.
func NewSyncSuggestLoader(raw RawLoader) ConfigLoader {
	return rawConfigLoader{raw: raw, suggest: true}
}

// NewAsyncSaveLoader builds an asynchronous (Background Executor-scheduled)
// ConfigLoader that saves raw's result directly.
func NewAsyncSaveLoader(raw RawLoader) ConfigLoader {
	return rawConfigLoader{raw: raw, background: true}
}

// NewAsyncSuggestLoader builds an asynchronous ConfigLoader that routes
// raw's result through suggestion. This is the shape of a loader that runs
// user code or an external process.
func NewAsyncSuggestLoader(raw RawLoader) ConfigLoader {
	return rawConfigLoader{raw: raw, background: true, suggest: true}
}

// FallbackRawLoader tries each of loaders in order, returning the first
// one that succeeds. If all of them fail, it returns an aggregate error
// joining every attempt's failure, so a diagnostic can report all of them
// rather than only the last. Grounded on the original xconf package's
// MultiLoader use of xerr.MultiError to aggregate per-sub-loader failures.
func FallbackRawLoader(loaders ...RawLoader) RawLoader {
	return RawLoaderFunc(func(fileKey FileKey, def ScriptDefinition) (LoadedConfiguration, error) {
		var mErr *xerr.MultiError
		for _, loader := range loaders {
			loaded, err := loader.Load(fileKey, def)
			if err == nil {
				return loaded, nil
			}
			mErr = mErr.Add(err)
		}

		return LoadedConfiguration{}, mErr.ErrOrNil()
	})
}

// ShouldRunInBackground implements ConfigLoader.
func (l rawConfigLoader) ShouldRunInBackground(_ ScriptDefinition) bool {
	return l.background
}

// Load implements ConfigLoader.
func (l rawConfigLoader) Load(_ bool, fileKey FileKey, def ScriptDefinition, ctx LoadingContext) bool {
	loaded, err := l.raw.Load(fileKey, def)
	loaded = errorToDiagnostic(loaded, err)

	if l.suggest {
		ctx.SuggestNewConfiguration(fileKey, loaded)
	} else {
		ctx.SaveNewConfiguration(fileKey, loaded)
	}

	return true
}
