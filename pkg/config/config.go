// Package config loads taskpool configuration from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/common/validation"
	"github.com/vnykmshr/taskpool/pkg/pool"
	"github.com/vnykmshr/taskpool/pkg/queue"
	"github.com/vnykmshr/taskpool/pkg/schedule"
)

// FileConfig is the root of a configuration file.
type FileConfig struct {
	Pool     PoolConfig     `yaml:"pool" json:"pool"`
	Queue    QueueConfig    `yaml:"queue" json:"queue"`
	Schedule ScheduleConfig `yaml:"schedule" json:"schedule"`
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	Workers    int    `yaml:"workers" json:"workers"`
	QueueSize  int    `yaml:"queue_size" json:"queue_size"`
	JobTimeout string `yaml:"job_timeout" json:"job_timeout"`
}

// QueueConfig configures the Redis-backed job queue. An empty Addr means
// the queue is not used.
type QueueConfig struct {
	Addr       string `yaml:"addr" json:"addr"`
	Key        string `yaml:"key" json:"key"`
	PopTimeout string `yaml:"pop_timeout" json:"pop_timeout"`
}

// ScheduleConfig configures the scheduler.
type ScheduleConfig struct {
	TickInterval string `yaml:"tick_interval" json:"tick_interval"`
	MaxEntries   int    `yaml:"max_entries" json:"max_entries"`
}

// Load reads a configuration file. The format is chosen by extension:
// .yaml/.yml or .json.
func Load(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return Parse(data, "yaml")
	case ".json":
		return Parse(data, "json")
	default:
		return nil, tperrors.NewValidationError("config", "path", path,
			"unsupported extension "+ext).
			WithHint("use .yaml, .yml or .json")
	}
}

// Parse decodes configuration data in the given format ("yaml" or "json")
// and validates it.
func Parse(data []byte, format string) (*FileConfig, error) {
	var cfg FileConfig

	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse json: %w", err)
		}
	default:
		return nil, tperrors.NewValidationError("config", "format", format,
			"unsupported format")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for structural errors.
func (c *FileConfig) Validate() error {
	if err := validation.ValidatePositive("config", "pool.workers", c.Pool.Workers); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative("config", "pool.queue_size", c.Pool.QueueSize); err != nil {
		return err
	}
	if _, err := parseDuration("pool.job_timeout", c.Pool.JobTimeout); err != nil {
		return err
	}
	if _, err := parseDuration("queue.pop_timeout", c.Queue.PopTimeout); err != nil {
		return err
	}
	if _, err := parseDuration("schedule.tick_interval", c.Schedule.TickInterval); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative("config", "schedule.max_entries", c.Schedule.MaxEntries); err != nil {
		return err
	}
	if c.Queue.Addr != "" {
		if err := validation.ValidateNotEmpty("config", "queue.key", c.Queue.Key); err != nil {
			return err
		}
	}
	return nil
}

// BuildPool converts the pool section into a pool.Config.
func (c *FileConfig) BuildPool() (pool.Config, error) {
	timeout, err := parseDuration("pool.job_timeout", c.Pool.JobTimeout)
	if err != nil {
		return pool.Config{}, err
	}
	return pool.Config{
		Workers:    c.Pool.Workers,
		QueueSize:  c.Pool.QueueSize,
		JobTimeout: timeout,
	}, nil
}

// BuildQueue converts the queue section into a queue.Config, creating a
// Redis client for the configured address.
func (c *FileConfig) BuildQueue() (queue.Config, error) {
	if err := validation.ValidateNotEmpty("config", "queue.addr", c.Queue.Addr); err != nil {
		return queue.Config{}, err
	}
	popTimeout, err := parseDuration("queue.pop_timeout", c.Queue.PopTimeout)
	if err != nil {
		return queue.Config{}, err
	}
	return queue.Config{
		Redis:      redis.NewClient(&redis.Options{Addr: c.Queue.Addr}),
		Key:        c.Queue.Key,
		PopTimeout: popTimeout,
	}, nil
}

// BuildSchedule converts the schedule section into a schedule.Config.
// The pool is left for the caller to attach.
func (c *FileConfig) BuildSchedule() (schedule.Config, error) {
	tick, err := parseDuration("schedule.tick_interval", c.Schedule.TickInterval)
	if err != nil {
		return schedule.Config{}, err
	}
	return schedule.Config{
		TickInterval: tick,
		MaxEntries:   c.Schedule.MaxEntries,
	}, nil
}

// parseDuration parses an optional duration string; empty means zero.
func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, tperrors.NewValidationError("config", field, value, err.Error()).
			WithHint(`use a Go duration string like "30s" or "1m"`)
	}
	if d < 0 {
		return 0, tperrors.NewValidationError("config", field, value, "cannot be negative")
	}
	return d, nil
}
