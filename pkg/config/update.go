package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in a
// valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for uniparq.yaml.
// Excludes runtime-only fields (HomeDir, InputPath, OutputPath,
// FastaPath). Used for round-tripping uniparq.yaml ↔ Config
// conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int

	i = c.Performance.BatchSize
	if i > 0 {
		res = append(res, OptBatchSize(i))
	}
	i = c.Performance.ChannelCapacity
	if i > 0 {
		res = append(res, OptChannelCapacity(i))
	}
	i = c.Performance.BufferSize
	if i > 0 {
		res = append(res, OptBufferSize(i))
	}
	i = c.Performance.CompressionLevel
	if i > 0 {
		res = append(res, OptCompressionLevel(i))
	}

	s = c.Convert.OnMalformed
	if s != "" {
		res = append(res, OptOnMalformed(s))
	}
	i = c.Convert.KeepRuns
	if i > 0 {
		res = append(res, OptKeepRuns(i))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Convert.OnMalformed": {OnMalformedSkip: s, OnMalformedAbort: s},
		"Log.Level":           {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":          {"json": s, "text": s},
		"Log.Destination":     {"file": s, "stdout": s, "stderr": s},
	}
	if _, ok := data[name][val]; ok {
		return true
	}

	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		lines = append(lines, fmt.Sprintf("  * %s", v))
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
