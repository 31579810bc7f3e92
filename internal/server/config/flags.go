package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/filesmanager/internal/flagx"
)

var flagNames = []string{
	"-a", "-l", "-m", "-d", "-o", "-n", "-r", "-x", "-i", "-t", "-k", "-f",
	"-u", "-p", "-b", "-g", "-e", "-q", "-j", "-W", "-s", "-v",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     REST API bind address (e.g., ":5000")
//	-l string     gRPC health bind address (e.g., ":50051")
//	-m string     metadata backend: postgres or mongo
//	-d string     PostgreSQL DSN
//	-o string     MongoDB URI
//	-n string     MongoDB database
//	-r string     Redis address
//	-x string     Redis password
//	-i int        Redis database number
//	-t duration   session lifetime (e.g., "24h")
//	-k string     blob backend: local or s3
//	-f string     folder for the local blob backend
//	-u string     S3 root user
//	-p string     S3 root password
//	-b string     S3 bucket name
//	-g string     S3 region
//	-e string     S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-q string     job queue name
//	-j int        worker concurrency
//	-W bool       run the thumbnail worker in-process (use -W=true)
//	-s duration   health probe interval
//	-v string     log level
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], flagNames)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the REST API")
	fs.StringVar(&config.GRPCHealthAddr, "l", config.GRPCHealthAddr, "address and port to run the health service")
	fs.StringVar(&config.MetadataBackend, "m", config.MetadataBackend, "metadata backend (postgres|mongo)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MongoURI, "o", config.MongoURI, "MongoDB URI")
	fs.StringVar(&config.MongoDatabase, "n", config.MongoDatabase, "MongoDB database")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "Redis address")
	fs.StringVar(&config.RedisPassword, "x", config.RedisPassword, "Redis password")
	fs.IntVar(&config.RedisDB, "i", config.RedisDB, "Redis database")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session lifetime")
	fs.StringVar(&config.BlobBackend, "k", config.BlobBackend, "blob backend (local|s3)")
	fs.StringVar(&config.FolderPath, "f", config.FolderPath, "folder for stored files")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.QueueName, "q", config.QueueName, "job queue name")
	fs.IntVar(&config.WorkerConcurrency, "j", config.WorkerConcurrency, "thumbnail jobs processed in parallel")
	fs.BoolVar(&config.EmbeddedWorker, "W", config.EmbeddedWorker, "run the thumbnail worker in-process")
	fs.DurationVar(&config.HealthProbeInterval, "s", config.HealthProbeInterval, "health probe interval")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
