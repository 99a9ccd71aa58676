package ioruns

import (
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"uniparq/pkg/config"
	"uniparq/pkg/metrics"
	"uniparq/pkg/uniparq"
)

// Run statuses recorded in reports and the ledger.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Report is the YAML document written as report.yaml at the end of a
// run.
type Report struct {
	RunID        string  `yaml:"run_id"`
	UUID         string  `yaml:"uuid"`
	Timestamp    string  `yaml:"timestamp"`
	DurationSecs float64 `yaml:"duration_secs"`
	Status       string  `yaml:"status"`
	Error        string  `yaml:"error,omitempty"`

	Input  string `yaml:"input"`
	Output string `yaml:"output"`

	Environment Environment      `yaml:"environment"`
	Performance metrics.Snapshot `yaml:"performance"`
}

// Environment describes the machine a run executed on.
type Environment struct {
	OS       string `yaml:"os"`
	Arch     string `yaml:"arch"`
	CPUCores int    `yaml:"cpu_cores"`
	Runtime  string `yaml:"runtime"`
	Version  string `yaml:"version"`
}

// NewReport assembles a report from the run context and final
// counters. runErr may be nil.
func NewReport(
	rc *RunContext, cfg *config.Config, m *metrics.Metrics, runErr error,
) *Report {
	rep := &Report{
		RunID:        rc.ID,
		UUID:         rc.UUID,
		Timestamp:    rc.Start.Format(time.RFC3339),
		DurationSecs: time.Since(rc.Start).Seconds(),
		Status:       StatusSuccess,
		Input:        cfg.Convert.InputPath,
		Output:       cfg.Convert.OutputPath,
		Environment: Environment{
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
			CPUCores: runtime.NumCPU(),
			Runtime:  runtime.Version(),
			Version:  uniparq.Version,
		},
		Performance: m.Snapshot(),
	}
	if runErr != nil {
		rep.Status = StatusError
		rep.Error = runErr.Error()
	}
	return rep
}

// Write serializes the report into the run directory.
func (r *Report) Write(rc *RunContext) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return ReportError(rc.ReportPath(), err)
	}
	if err := os.WriteFile(rc.ReportPath(), data, 0644); err != nil {
		return ReportError(rc.ReportPath(), err)
	}
	return nil
}

// WriteConfigSnapshot records the effective configuration of the run.
func WriteConfigSnapshot(rc *RunContext, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return ConfigSnapshotError(rc.ConfigSnapshotPath(), err)
	}
	err = os.WriteFile(rc.ConfigSnapshotPath(), data, 0644)
	if err != nil {
		return ConfigSnapshotError(rc.ConfigSnapshotPath(), err)
	}
	return nil
}
