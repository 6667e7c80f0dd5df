package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mkravets/filehub/internal/flagx"
	"github.com/mkravets/filehub/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "24h" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddr      string         `json:"endpoint_addr"`
	DatabaseDSN       string         `json:"database_dsn"`
	RedisAddr         string         `json:"redis_addr"`
	RedisPassword     string         `json:"redis_password"`
	SessionTTL        timex.Duration `json:"session_ttl"`
	QueueName         string         `json:"queue_name"`
	WorkerConcurrency int            `json:"worker_concurrency"`
	BlobBackend       string         `json:"blob_backend"`
	LocalBlobDir      string         `json:"local_blob_dir"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flag into the provided Config. When no file is named, nothing
// is loaded. A missing or malformed file panics: a config file that was
// asked for but cannot be used is a startup error.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.RedisAddr = c.RedisAddr
	config.RedisPassword = c.RedisPassword
	config.SessionTTL = time.Duration(c.SessionTTL.Duration)
	config.QueueName = c.QueueName
	config.WorkerConcurrency = c.WorkerConcurrency
	config.BlobBackend = c.BlobBackend
	config.LocalBlobDir = c.LocalBlobDir
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
