// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle_test

import (
	"reflect"
	"testing"
)

// assertEqual reports a test failure if expected and actual differ, using
// reflect.DeepEqual. It returns whether the assertion held, so callers can
// guard further inspection of a value that failed to match.
func assertEqual(t *testing.T, expected, actual any) bool {
	t.Helper()

	if reflect.DeepEqual(expected, actual) {
		return true
	}

	t.Errorf("expected %#v, got %#v", expected, actual)

	return false
}

// assertNil reports a test failure if value is not nil. A typed nil
// (a nil error, a nil pointer boxed in an interface) counts as nil.
func assertNil(t *testing.T, value any) bool {
	t.Helper()

	if isNil(value) {
		return true
	}

	t.Errorf("expected nil, got %#v", value)

	return false
}

// assertNotNil reports a test failure if value is nil.
func assertNotNil(t *testing.T, value any) bool {
	t.Helper()

	if !isNil(value) {
		return true
	}

	t.Errorf("expected a non-nil value")

	return false
}

// assertTrue reports a test failure if cond is false.
func assertTrue(t *testing.T, cond bool) bool {
	t.Helper()

	if cond {
		return true
	}

	t.Errorf("expected condition to be true")

	return false
}

// assertFalse reports a test failure if cond is true.
func assertFalse(t *testing.T, cond bool) bool {
	t.Helper()

	if !cond {
		return true
	}

	t.Errorf("expected condition to be false")

	return false
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
