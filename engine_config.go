// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle

import "github.com/go-playground/validator/v10"

// EngineConfig carries the Engine's validated tunables. Unlike the
// collaborator interfaces (definition registry, loader chain, panel, ...),
// which are wired through EngineOption, these are plain values validated
// once at construction time.
type EngineConfig struct {
	// CacheCapacity bounds the Configuration Cache's backing LRU.
	CacheCapacity int `validate:"gte=1"`
	// ReloadErrorLogLevel names the severity at which load failures are
	// logged; consumed by NewXLogErrorHandler to pick the logger method to
	// call.
	ReloadErrorLogLevel string `validate:"omitempty,oneof=debug info warning error"`
	// CorrelationIDPrefix, if set, is prepended to every minted correlation
	// id (e.g. a host or session identifier), bounded to keep log lines
	// readable.
	CorrelationIDPrefix string `validate:"max=32"`
}

// DefaultEngineConfig returns the zero-tuning EngineConfig: the default
// cache capacity, "error"-level reload logging, no correlation id prefix.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		CacheCapacity:       DefaultCacheCapacity,
		ReloadErrorLogLevel: "error",
	}
}

var engineConfigValidate = validator.New()

// validate runs the struct tag validations. A failure here is a
// construction-time error, never a runtime panic - that policy binds the
// running engine, not NewEngine itself.
func (c EngineConfig) validate() error {
	return engineConfigValidate.Struct(c)
}
