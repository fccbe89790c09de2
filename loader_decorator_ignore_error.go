// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle

import "errors"

// IgnoreErrorRawLoader decorates another RawLoader to ignore the error
// returned by it, if that error is present in the list of errs passed as
// second parameter. An ignored error yields an empty LoadedConfiguration
// with no diagnostics and no error - a pure no-op, treating "file vanished
// between schedule and run" as transient: any existing cache entry is
// retained. You can ignore, for example, [os.ErrNotExist] for a RawLoader
// backed by a side file that isn't mandatory to exist.
func IgnoreErrorRawLoader(loader RawLoader, errs ...error) RawLoader {
	return RawLoaderFunc(func(fileKey FileKey, def ScriptDefinition) (LoadedConfiguration, error) {
		loaded, err := loader.Load(fileKey, def)
		if err != nil {
			for _, ignoreErr := range errs {
				if errors.Is(err, ignoreErr) {
					return LoadedConfiguration{}, nil
				}
			}
		}

		return loaded, err
	})
}
