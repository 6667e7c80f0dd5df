package config

import (
	"flag"
	"os"
	"time"

	"github.com/mkravets/filehub/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-r string   Redis address
//	-s string   Redis password
//	-t int      session token lifetime, hours
//	-q string   thumbnail queue name
//	-w int      worker concurrency
//	-o string   blob backend ("local" or "s3")
//	-f string   local blob directory
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-r", "-s", "-t", "-q", "-w", "-o", "-f", "-u", "-p", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.RedisPassword, "s", config.RedisPassword, "redis password")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Hours()), "session token lifetime (in hours)")

	fs.StringVar(&config.QueueName, "q", config.QueueName, "thumbnail queue name")
	fs.IntVar(&config.WorkerConcurrency, "w", config.WorkerConcurrency, "worker concurrency")
	fs.StringVar(&config.BlobBackend, "o", config.BlobBackend, "blob backend (local or s3)")
	fs.StringVar(&config.LocalBlobDir, "f", config.LocalBlobDir, "local blob directory")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Hour
}
