package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vnykmshr/taskpool/internal/testutil"
	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
)

const sampleYAML = `
pool:
  workers: 4
  queue_size: 100
  job_timeout: 30s
queue:
  addr: localhost:6379
  key: jobs
  pop_timeout: 2s
schedule:
  tick_interval: 50ms
  max_entries: 500
`

const sampleJSON = `{
  "pool": {"workers": 2, "queue_size": 10},
  "schedule": {"tick_interval": "100ms"}
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "taskpool.yaml", sampleYAML))
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, cfg.Pool.Workers, 4)
	testutil.AssertEqual(t, cfg.Pool.QueueSize, 100)
	testutil.AssertEqual(t, cfg.Queue.Addr, "localhost:6379")
	testutil.AssertEqual(t, cfg.Queue.Key, "jobs")
	testutil.AssertEqual(t, cfg.Schedule.MaxEntries, 500)
}

func TestLoadJSON(t *testing.T) {
	cfg, err := Load(writeFile(t, "taskpool.json", sampleJSON))
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, cfg.Pool.Workers, 2)
	testutil.AssertEqual(t, cfg.Queue.Addr, "")
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(writeFile(t, "taskpool.toml", "workers = 4"))
	testutil.AssertErrorIs(t, err, tperrors.ErrInvalidConfiguration)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	testutil.AssertError(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero workers", "pool:\n  workers: 0\n"},
		{"negative queue size", "pool:\n  workers: 1\n  queue_size: -5\n"},
		{"bad duration", "pool:\n  workers: 1\n  job_timeout: soon\n"},
		{"negative duration", "pool:\n  workers: 1\n  job_timeout: -1s\n"},
		{"queue addr without key", "pool:\n  workers: 1\nqueue:\n  addr: localhost:6379\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), "yaml")
			testutil.AssertErrorIs(t, err, tperrors.ErrInvalidConfiguration)
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("pool: [not: a: mapping"), "yaml")
	testutil.AssertError(t, err)
}

func TestBuildPool(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), "yaml")
	testutil.AssertNoError(t, err)

	pc, err := cfg.BuildPool()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, pc.Workers, 4)
	testutil.AssertEqual(t, pc.QueueSize, 100)
	testutil.AssertEqual(t, pc.JobTimeout, 30*time.Second)
}

func TestBuildQueue(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), "yaml")
	testutil.AssertNoError(t, err)

	qc, err := cfg.BuildQueue()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, qc.Key, "jobs")
	testutil.AssertEqual(t, qc.PopTimeout, 2*time.Second)
	if qc.Redis == nil {
		t.Error("expected a Redis client")
	}
}

func TestBuildQueueWithoutAddr(t *testing.T) {
	cfg, err := Parse([]byte("pool:\n  workers: 1\n"), "yaml")
	testutil.AssertNoError(t, err)

	_, err = cfg.BuildQueue()
	testutil.AssertErrorIs(t, err, tperrors.ErrInvalidConfiguration)
}

func TestBuildSchedule(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), "yaml")
	testutil.AssertNoError(t, err)

	sc, err := cfg.BuildSchedule()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sc.TickInterval, 50*time.Millisecond)
	testutil.AssertEqual(t, sc.MaxEntries, 500)
}
