// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// ExternalResolverLoader is the untrusted, asynchronous RawLoader (A9): it
// shells out to a user-supplied resolver process for the given script file
// and parses its stdout as the JSON object {"value": "..."}. Because the
// resolver is arbitrary user-configured code, its result is never trusted
// directly - callers route it through NewAsyncSuggestLoader, letting the
// suggest-vs-apply gate decide whether it's applied automatically or
// surfaced for confirmation.
//
// Grounded on the subprocess invocation style of ipiton-alert-history-service's
// backup manager (exec.CommandContext, CombinedOutput, timeout via context).
type ExternalResolverLoader struct {
	// Command builds the resolver's argv for fileKey; Command[0] is the
	// executable.
	Command func(fileKey FileKey) []string
	// Timeout bounds how long the resolver process may run. Zero means no
	// timeout.
	Timeout time.Duration
	// Live supplies the stamp captured alongside the resolver's result, so
	// the backgroundTask staleness re-check can short-circuit an
	// edit-then-revert on a resolver-backed file the same way every other
	// loader does, instead of always re-running the resolver process.
	Live LiveFileSource
}

// externalResolverOutput is the JSON shape an external resolver process must
// print to stdout on success.
type externalResolverOutput struct {
	Value string `json:"value"`
}

// Load implements RawLoader.
func (l ExternalResolverLoader) Load(fileKey FileKey, def ScriptDefinition) (LoadedConfiguration, error) {
	modTime, err := l.Live.ModTime(fileKey)
	if err != nil {
		return LoadedConfiguration{}, fmt.Errorf("scle: external resolver for %s: %w", fileKey, err)
	}

	ctx := context.Background()
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	argv := l.Command(fileKey)
	if len(argv) == 0 {
		return LoadedConfiguration{}, fmt.Errorf("scle: external resolver: empty command for %s", fileKey)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // argv is caller-configured, not user input

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return LoadedConfiguration{}, fmt.Errorf("scle: external resolver for %s: %w: %s", fileKey, err, stderr.String())
	}

	var out externalResolverOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return LoadedConfiguration{}, fmt.Errorf("scle: external resolver for %s: malformed output: %w", fileKey, err)
	}

	return LoadedConfiguration{
		Inputs:        NewModTimeStamp(modTime),
		Configuration: StringConfiguration(out.Value),
	}, nil
}
