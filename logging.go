// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle

import "github.com/actforgood/xlog"

// NewXLogErrorHandler adapts a xlog.Logger into an engine error handler.
// Grounded on the original xconf package's LogErrorHandler, generalized
// from a single reload-wide error to a per-file one and enriched with the
// decision's correlation id. level picks the logger method to call -
// typically EngineConfig.ReloadErrorLogLevel; an unrecognized value falls
// back to Error so a load failure is never logged more quietly than
// intended.
func NewXLogErrorHandler(logger xlog.Logger, level string) func(fileKey FileKey, correlationID string, err error) {
	log := xlogLevelMethod(logger, level)

	return func(fileKey FileKey, correlationID string, err error) {
		log(
			xlog.MessageKey, "[scle] could not load script configuration",
			"file", fileKey.String(),
			"correlation_id", correlationID,
			xlog.ErrorKey, xlog.StackErr(err),
		)
	}
}

// xlogLevelMethod resolves level to one of logger's leveled methods.
func xlogLevelMethod(logger xlog.Logger, level string) func(keyValues ...any) {
	switch level {
	case "debug":
		return logger.Debug
	case "info":
		return logger.Info
	case "warning":
		return logger.Warning
	default:
		return logger.Error
	}
}
