package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"uniparq/internal/iofs"
	"uniparq/internal/iologger"
	"uniparq/pkg/config"
	"uniparq/pkg/uniparq"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: fmt.Sprintf(
		"version: %s\nbuild:   %s", uniparq.Version, uniparq.Build,
	),
	Use:   "uniparq",
	Short: "Converts UniProtKB XML dumps into Parquet files",
	Long: `uniparq converts compressed UniProtKB XML dumps into columnar Parquet
files under a flat memory ceiling. Each protein entry produces one row
per sequence form: the canonical sequence plus every declared isoform,
with position-bearing annotations rewritten into each isoform's own
coordinate frame.

Commands:
  fetch    download a dump and its isoform sidecar FASTA
  convert  run the XML to Parquet pipeline
  filter   split a converted file by organism
  runs     list past conversion runs
  clean    prune old run directories

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (UNIPARQ_*)
  3. Config file (~/.config/uniparq/uniparq.yaml)
  4. Built-in defaults`,
	PersistentPreRunE: bootstrap,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults.
	// Will be reconfigured later with user's config settings.
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	err = iologger.Init(config.LogDir(homeDir), defaultLog, false)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings
	err = iologger.Init(config.LogDir(homeDir), cfg.Log, true)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info(
		"Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
	)

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Remove the automatic "uniparq version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.Flags().BoolP("version", "V", false, "version for uniparq")

	rootCmd.AddCommand(getFetchCmd())
	rootCmd.AddCommand(getConvertCmd())
	rootCmd.AddCommand(getFilterCmd())
	rootCmd.AddCommand(getRunsCmd())
	rootCmd.AddCommand(getCleanCmd())
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables
	// are allowed. These match the fields included in
	// config.ToOptions(), the persistent configuration that can be
	// stored in uniparq.yaml.
	v.SetEnvPrefix("UNIPARQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Performance configuration
	v.BindEnv("performance.batch_size", "UNIPARQ_PERFORMANCE_BATCH_SIZE")
	v.BindEnv("performance.channel_capacity",
		"UNIPARQ_PERFORMANCE_CHANNEL_CAPACITY")
	v.BindEnv("performance.buffer_size", "UNIPARQ_PERFORMANCE_BUFFER_SIZE")
	v.BindEnv("performance.compression_level",
		"UNIPARQ_PERFORMANCE_COMPRESSION_LEVEL")

	// Convert configuration
	v.BindEnv("convert.on_malformed", "UNIPARQ_CONVERT_ON_MALFORMED")
	v.BindEnv("convert.keep_runs", "UNIPARQ_CONVERT_KEEP_RUNS")

	// Log configuration
	v.BindEnv("log.level", "UNIPARQ_LOG_LEVEL")
	v.BindEnv("log.format", "UNIPARQ_LOG_FORMAT")
	v.BindEnv("log.destination", "UNIPARQ_LOG_DESTINATION")

	v.AutomaticEnv()
}
