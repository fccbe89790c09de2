// Copyright 2022 Bogdan Constantinescu.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/LICENSE.

// Package scle provides the Script Configuration Loading Engine: a small
// state machine, per tracked script file, wrapped around a deduplicating
// background work queue and a two-tier cache (applied + pending).
//
// It decides when a cached configuration is stale, loads a fresh one either
// synchronously or on a dedicated background worker, optionally requires
// user confirmation ("apply") before a new configuration is exposed to
// downstream analysis, and behaves predictably under rapid concurrent edits.
package scle
