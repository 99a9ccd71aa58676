package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptBatchSize sets the number of rows per batch.
func OptBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Performance.BatchSize = i
		}
	}
}

// OptChannelCapacity sets the number of batches in flight between the
// producer and consumer goroutines.
func OptChannelCapacity(i int) Option {
	return func(c *Config) {
		if isValidInt("Channel Capacity", i) {
			c.Performance.ChannelCapacity = i
		}
	}
}

// OptBufferSize sets the XML read buffer size in bytes.
func OptBufferSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Buffer Size", i) {
			c.Performance.BufferSize = i
		}
	}
}

// OptCompressionLevel sets the zstd level for the Parquet writer.
func OptCompressionLevel(i int) Option {
	return func(c *Config) {
		if isValidInt("Compression Level", i) {
			c.Performance.CompressionLevel = i
		}
	}
}

// OptInputPath sets the input XML dump path.
// Runtime-only field - not in ToOptions().
func OptInputPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if s != "" {
			c.Convert.InputPath = s
		}
	}
}

// OptOutputPath sets the destination Parquet path.
// Runtime-only field - not in ToOptions().
func OptOutputPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if s != "" {
			c.Convert.OutputPath = s
		}
	}
}

// OptFastaPath sets the isoform sidecar FASTA path.
// Runtime-only field - not in ToOptions().
func OptFastaPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if s != "" {
			c.Convert.FastaPath = s
		}
	}
}

// OptOnMalformed sets the malformed-entry policy.
// Valid values: "skip", "abort".
func OptOnMalformed(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Convert.OnMalformed", s) {
			c.Convert.OnMalformed = s
		}
	}
}

// OptKeepRuns sets how many run directories cleanup retains.
func OptKeepRuns(i int) Option {
	return func(c *Config) {
		if isValidInt("Keep Runs", i) {
			c.Convert.KeepRuns = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the logging format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stdout", "stderr".
func OptLogDestination(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptHomeDir sets the home directory used to derive config, data and
// log paths. Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if s != "" {
			c.HomeDir = s
		}
	}
}
