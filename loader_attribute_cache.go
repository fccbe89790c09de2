// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle

import (
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"
)

// AttributeCacheRecord is the side-file format an AttributeCacheLoader reads
// and writes: a previously resolved configuration token plus the file
// modification time it was resolved against. It is the trusted-source
// analogue of the original xconf package's JSON/YAML file loaders, adapted
// from an arbitrary config map to a single opaque Configuration token.
type AttributeCacheRecord struct {
	ModTime int64  `json:"mod_time" yaml:"mod_time"`
	Value   string `json:"value"    yaml:"value"`
}

// attributeCacheCodec is the narrow (un)marshal pair an AttributeCacheLoader
// needs; JSON and YAML encodings both satisfy it trivially via the stdlib
// and gopkg.in/yaml.v3 respectively.
type attributeCacheCodec interface {
	Marshal(record AttributeCacheRecord) ([]byte, error)
	Unmarshal(data []byte) (AttributeCacheRecord, error)
}

type jsonAttributeCacheCodec struct{}

func (jsonAttributeCacheCodec) Marshal(record AttributeCacheRecord) ([]byte, error) {
	return json.Marshal(record)
}

func (jsonAttributeCacheCodec) Unmarshal(data []byte) (AttributeCacheRecord, error) {
	var record AttributeCacheRecord
	err := json.Unmarshal(data, &record)

	return record, err
}

type yamlAttributeCacheCodec struct{}

func (yamlAttributeCacheCodec) Marshal(record AttributeCacheRecord) ([]byte, error) {
	return yaml.Marshal(record)
}

func (yamlAttributeCacheCodec) Unmarshal(data []byte) (AttributeCacheRecord, error) {
	var record AttributeCacheRecord
	err := yaml.Unmarshal(data, &record)

	return record, err
}

// AttributeCacheLoader is a trusted, synchronous RawLoader (A8): it reads a
// previously persisted configuration token from a side file next to the
// script file, keyed by the script's own modification time, and reports it
// via ModTimeStamp. Because the side file is assumed already validated (it
// is the engine's own previously-applied output, or another trusted tool's
// output), loaders built on top of it route through NewSyncSaveLoader
// rather than suggestion.
type AttributeCacheLoader struct {
	suffix string
	codec  attributeCacheCodec
	live   LiveFileSource
}

// NewJSONAttributeCacheLoader builds an AttributeCacheLoader persisting its
// side file as JSON. suffix is appended to the script file's own path to
// derive the side file's path (e.g. ".scle.json").
func NewJSONAttributeCacheLoader(suffix string, live LiveFileSource) *AttributeCacheLoader {
	return &AttributeCacheLoader{suffix: suffix, codec: jsonAttributeCacheCodec{}, live: live}
}

// NewYAMLAttributeCacheLoader builds an AttributeCacheLoader persisting its
// side file as YAML.
func NewYAMLAttributeCacheLoader(suffix string, live LiveFileSource) *AttributeCacheLoader {
	return &AttributeCacheLoader{suffix: suffix, codec: yamlAttributeCacheCodec{}, live: live}
}

// sidePath derives the side file's path from fileKey.
func (l *AttributeCacheLoader) sidePath(fileKey FileKey) string {
	return fileKey.String() + l.suffix
}

// Load implements RawLoader. A missing side file surfaces os.ErrNotExist
// unchanged, so callers typically wrap this loader with IgnoreErrorRawLoader
// when the cache is optional.
func (l *AttributeCacheLoader) Load(fileKey FileKey, _ ScriptDefinition) (LoadedConfiguration, error) {
	data, err := os.ReadFile(l.sidePath(fileKey))
	if err != nil {
		return LoadedConfiguration{}, err
	}

	record, err := l.codec.Unmarshal(data)
	if err != nil {
		return LoadedConfiguration{}, err
	}

	return LoadedConfiguration{
		Inputs:        NewModTimeStamp(record.ModTime),
		Configuration: StringConfiguration(record.Value),
	}, nil
}

// Persist writes entry to the side file, capturing the live file's current
// modification time via l.live. It's how a previously-suggested and applied
// configuration becomes this loader's trusted source for the next session.
func (l *AttributeCacheLoader) Persist(fileKey FileKey, value string) error {
	modTime, err := l.live.ModTime(fileKey)
	if err != nil {
		return err
	}

	data, err := l.codec.Marshal(AttributeCacheRecord{ModTime: modTime, Value: value})
	if err != nil {
		return err
	}

	return os.WriteFile(l.sidePath(fileKey), data, 0o644)
}
