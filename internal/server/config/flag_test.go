package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", ":8080", "-l", ":9090", "-m", "mongo", "-d", "db", "-o", "mongodb://m", "-n", "fm",
			"-r", "redis:6379", "-x", "pw", "-i", "2", "-t", "1h", "-k", "s3", "-f", "/data",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			"-q", "jobs", "-j", "4", "-W=true", "-s", "5s", "-v", "debug",
		},
			expected: &Config{
				HTTPAddr:            ":8080",
				GRPCHealthAddr:      ":9090",
				MetadataBackend:     "mongo",
				DatabaseDSN:         "db",
				MongoURI:            "mongodb://m",
				MongoDatabase:       "fm",
				RedisAddr:           "redis:6379",
				RedisPassword:       "pw",
				RedisDB:             2,
				SessionTTL:          time.Hour,
				BlobBackend:         "s3",
				FolderPath:          "/data",
				S3RootUser:          "user",
				S3RootPassword:      "password",
				S3Bucket:            "bucket",
				S3Region:            "us-west-1",
				S3BaseEndpoint:      "http://endpoint",
				QueueName:           "jobs",
				WorkerConcurrency:   4,
				EmbeddedWorker:      true,
				HealthProbeInterval: 5 * time.Second,
				LogLevel:            "debug",
			}},
		{name: "foreign flags are ignored", args: []string{"cmd", "-c", "cfg.json", "-zzz", "1", "-f", "/srv"},
			expected: &Config{FolderPath: "/srv"}},
		{name: "bad int", args: []string{"cmd", "-j", "many"}, expectPanic: true},
		{name: "bad duration", args: []string{"cmd", "-t", "forever"}, expectPanic: true},
	}

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(tt.expected, config))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
