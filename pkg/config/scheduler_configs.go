package config

import "fmt"

// WatchConfig represents the periodic checker configuration
type WatchConfig struct {
	Enabled bool       `json:"enabled" yaml:"enabled"`
	Jobs    []WatchJob `json:"jobs" yaml:"jobs"`
}

// WatchJob is one set of credentials checked on a cron schedule
type WatchJob struct {
	Name           string `json:"name" yaml:"name"`
	Cron           string `json:"cron" yaml:"cron"`
	LicenceNumber  string `json:"licence_number" yaml:"licence_number"`
	SecondNumber   string `json:"second_number" yaml:"second_number"`
	IsTheoryNumber bool   `json:"is_theory_number" yaml:"is_theory_number"`
	Location       string `json:"location,omitempty" yaml:"location,omitempty"`
}

// NewWatchConfig creates a watcher configuration with default values populated from environment variables
func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		Enabled: getEnvBool("WATCH_ENABLED", false),
		Jobs:    []WatchJob{},
	}
}

// Validate 验证定时检查任务
func (wj *WatchJob) Validate() error {
	if wj.Name == "" {
		return fmt.Errorf("%w: job name", ErrMissingRequired)
	}
	if !isValidCronExpression(wj.Cron) {
		return fmt.Errorf("%w: job %s: %q", ErrInvalidCron, wj.Name, wj.Cron)
	}
	if wj.LicenceNumber == "" || wj.SecondNumber == "" {
		return fmt.Errorf("%w: job %s: licence_number and second_number", ErrMissingRequired, wj.Name)
	}
	return nil
}
