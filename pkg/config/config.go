// Package config provides configuration management for uniparq.
//
// This package has no I/O dependencies (no file operations, no
// network calls). Validation functions may write user-facing warnings
// via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > uniparq.yaml
// > defaults.
//
// # Design Principles
//
//   - Default config (from New()) is always valid - no validation needed
//   - All mutations go through Option functions - the only way to
//     modify Config
//   - Invalid options are rejected with gn.Warn() - config remains in
//     a valid state
//   - ToOptions() converts persistent fields (those in uniparq.yaml)
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, uniparq.yaml, and env vars):
//   - Performance: batch_size, channel_capacity, buffer_size,
//     compression_level
//   - Convert: on_malformed, keep_runs
//   - Log: level, format, destination
//
// Runtime-only fields (CLI flags only):
//   - Convert.InputPath, OutputPath, FastaPath (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use the UNIPARQ_ prefix with underscores for nesting:
//
//	UNIPARQ_PERFORMANCE_BATCH_SIZE=10000
//	UNIPARQ_LOG_LEVEL=debug
package config

// Config represents the complete uniparq configuration.
type Config struct {
	// Performance contains pipeline tuning parameters.
	Performance PerformanceConfig `mapstructure:"performance" yaml:"performance"`

	// Convert contains settings specific to the convert command.
	Convert ConvertConfig `mapstructure:"convert" yaml:"convert"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// HomeDir determines where config, data and logs directories
	// reside. It must be set by the CLI during init; there is no
	// default value for it.
	HomeDir string
}

// PerformanceConfig contains pipeline tuning parameters.
type PerformanceConfig struct {
	// BatchSize is the number of rows accumulated per batch before
	// it is handed to the Parquet writer. Larger batches compress
	// better but hold more rows in memory.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// ChannelCapacity is the number of finished batches that may be
	// in flight between the parser and the writer. Together with
	// BatchSize it bounds total in-flight memory independently of
	// input size.
	ChannelCapacity int `mapstructure:"channel_capacity" yaml:"channel_capacity"`

	// BufferSize is the XML read buffer size in bytes.
	BufferSize int `mapstructure:"buffer_size" yaml:"buffer_size"`

	// CompressionLevel is the zstd level used by the Parquet writer.
	// It has no effect on parsing or transformation.
	CompressionLevel int `mapstructure:"compression_level" yaml:"compression_level"`
}

// ConvertConfig contains settings specific to the convert command.
type ConvertConfig struct {
	// InputPath is the UniProt XML dump (.xml or .xml.gz).
	// Runtime-only, set by the --input flag.
	InputPath string

	// OutputPath is the destination Parquet file.
	// Runtime-only, set by the --output flag.
	OutputPath string

	// FastaPath is the optional isoform sidecar FASTA file.
	// Runtime-only, set by the --fasta flag.
	FastaPath string

	// OnMalformed selects the policy for entries that close without
	// a primary accession: "skip" (count and continue) or "abort".
	OnMalformed string `mapstructure:"on_malformed" yaml:"on_malformed"`

	// KeepRuns is the number of run directories retained by cleanup.
	KeepRuns int `mapstructure:"keep_runs" yaml:"keep_runs"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// Malformed-entry policies recognized by Convert.OnMalformed.
const (
	OnMalformedSkip  = "skip"
	OnMalformedAbort = "abort"
)

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Performance: PerformanceConfig{
			BatchSize:        10_000,
			ChannelCapacity:  8,
			BufferSize:       256 * 1024,
			CompressionLevel: 3,
		},
		Convert: ConvertConfig{
			OnMalformed: OnMalformedSkip,
			KeepRuns:    10,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
	}

	return res
}
