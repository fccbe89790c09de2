// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle

// LoadingContext is the narrow capability a ConfigLoader gets to route a
// freshly loaded configuration back into the engine.
// Loaders that obtain a configuration from an already-trusted source use
// SaveNewConfiguration (bypasses suggestion, applies immediately); loaders
// that run user code or an external process use SuggestNewConfiguration.
type LoadingContext interface {
	SuggestNewConfiguration(fileKey FileKey, loaded LoadedConfiguration)
	SaveNewConfiguration(fileKey FileKey, loaded LoadedConfiguration)
}

// ConfigLoader is a pluggable strategy in the Loader Chain (C5). Load
// returns true if it handled the file - the chain stops at the first
// ConfigLoader that returns true.
type ConfigLoader interface {
	// ShouldRunInBackground reports whether this loader must run on the
	// Background Executor rather than synchronously on the caller thread.
	ShouldRunInBackground(def ScriptDefinition) bool

	// Load attempts to produce a LoadedConfiguration for fileKey and routes
	// it through ctx (Suggest or Save). isFirstLoad is true the very first
	// time fileKey has ever been loaded. Load returns true if it handled
	// the file.
	Load(isFirstLoad bool, fileKey FileKey, def ScriptDefinition, ctx LoadingContext) bool
}

// The ConfigLoaderFunc type is an adapter to allow the use of an ordinary
// pair of functions as a ConfigLoader, mirroring the original xconf
// package's LoaderFunc adapter for its simpler, map-returning Loader.
type ConfigLoaderFunc struct {
	RunInBackground func(def ScriptDefinition) bool
	LoadFunc        func(isFirstLoad bool, fileKey FileKey, def ScriptDefinition, ctx LoadingContext) bool
}

// ShouldRunInBackground calls fn.RunInBackground, defaulting to false.
func (fn ConfigLoaderFunc) ShouldRunInBackground(def ScriptDefinition) bool {
	if fn.RunInBackground == nil {
		return false
	}

	return fn.RunInBackground(def)
}

// Load calls fn.LoadFunc.
func (fn ConfigLoaderFunc) Load(
	isFirstLoad bool,
	fileKey FileKey,
	def ScriptDefinition,
	ctx LoadingContext,
) bool {
	return fn.LoadFunc(isFirstLoad, fileKey, def, ctx)
}
