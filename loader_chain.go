// Copyright 2022 Bogdan Constantinescu.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/LICENSE.

package scle

// ChainLoader is the Loader Chain (C5): an ordered list of ConfigLoader
// strategies. It is structurally grounded on the original xconf package's
// MultiLoader (a slice of sub-loaders plus one orchestrating method), but
// its merge-all-results behavior is replaced with first-applicable-wins:
// for a given invalidation, the chain partitions into sync and async
// loaders preserving order, tries sync loaders first-applicable, and
// otherwise schedules the async phase via the Background Executor.
type ChainLoader struct {
	sync  []ConfigLoader
	async []ConfigLoader
}

// NewChainLoader instantiates a new ChainLoader over loaders, in order.
//
// Because ShouldRunInBackground takes a ScriptDefinition, partitioning into
// a synchronous and an asynchronous phase (order preserved within each
// phase) happens per-call in RunSync/RunAsync below, not once here - this
// constructor only fixes the overall candidate order.
func NewChainLoader(loaders ...ConfigLoader) ChainLoader {
	return ChainLoader{sync: loaders}
}

// partition splits the chain's loaders into sync-phase and async-phase
// candidates for a given script definition, preserving relative order.
func (c ChainLoader) partition(def ScriptDefinition) (syncLoaders, asyncLoaders []ConfigLoader) {
	for _, loader := range c.sync {
		if loader.ShouldRunInBackground(def) {
			asyncLoaders = append(asyncLoaders, loader)
		} else {
			syncLoaders = append(syncLoaders, loader)
		}
	}

	return syncLoaders, asyncLoaders
}

// RunSync tries every synchronous loader in order, first-applicable wins.
// It returns true if one of them handled the file.
func (c ChainLoader) RunSync(isFirstLoad bool, fileKey FileKey, def ScriptDefinition, ctx LoadingContext) bool {
	syncLoaders, _ := c.partition(def)
	for _, loader := range syncLoaders {
		if loader.Load(isFirstLoad, fileKey, def, ctx) {
			return true
		}
	}

	return false
}

// RunAsync tries every asynchronous loader in order, first-applicable
// wins. It is meant to be called from inside a Background Executor task.
func (c ChainLoader) RunAsync(isFirstLoad bool, fileKey FileKey, def ScriptDefinition, ctx LoadingContext) bool {
	_, asyncLoaders := c.partition(def)
	for _, loader := range asyncLoaders {
		if loader.Load(isFirstLoad, fileKey, def, ctx) {
			return true
		}
	}

	return false
}
