package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/filesmanager/internal/flagx"
	"github.com/dmitrijs2005/filesmanager/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "24h" and integer nanoseconds.
//
// Pointer fields distinguish "absent" from "zero" so that a partial file only
// overrides the keys it names.
type JsonConfig struct {
	HTTPAddr            string          `json:"http_addr"`
	GRPCHealthAddr      string          `json:"grpc_health_addr"`
	MetadataBackend     string          `json:"metadata_backend"`
	DatabaseDSN         string          `json:"database_dsn"`
	MongoURI            string          `json:"mongo_uri"`
	MongoDatabase       string          `json:"mongo_database"`
	RedisAddr           string          `json:"redis_addr"`
	RedisPassword       string          `json:"redis_password"`
	RedisDB             *int            `json:"redis_db"`
	SessionTTL          *timex.Duration `json:"session_ttl"`
	BlobBackend         string          `json:"blob_backend"`
	FolderPath          string          `json:"folder_path"`
	S3RootUser          string          `json:"s3_root_user"`
	S3RootPassword      string          `json:"s3_root_password"`
	S3Bucket            string          `json:"s3_bucket"`
	S3Region            string          `json:"s3_region"`
	S3BaseEndpoint      string          `json:"s3_base_endpoint"`
	QueueName           string          `json:"queue_name"`
	WorkerConcurrency   *int            `json:"worker_concurrency"`
	EmbeddedWorker      *bool           `json:"embedded_worker"`
	HealthProbeInterval *timex.Duration `json:"health_probe_interval"`
	LogLevel            string          `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag into config. Without the flag nothing is loaded. An unreadable
// file or invalid JSON panics, like a bad command line does.
func parseJson(config *Config) {
	path := flagx.ConfigPath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCHealthAddr, c.GRPCHealthAddr)
	setString(&config.MetadataBackend, c.MetadataBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.MongoURI, c.MongoURI)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.BlobBackend, c.BlobBackend)
	setString(&config.FolderPath, c.FolderPath)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.QueueName, c.QueueName)
	setString(&config.LogLevel, c.LogLevel)

	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.WorkerConcurrency != nil {
		config.WorkerConcurrency = *c.WorkerConcurrency
	}
	if c.EmbeddedWorker != nil {
		config.EmbeddedWorker = *c.EmbeddedWorker
	}
	if c.HealthProbeInterval != nil {
		config.HealthProbeInterval = c.HealthProbeInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
