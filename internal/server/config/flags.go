package config

import (
	"flag"
	"os"
	"time"

	"github.com/i2clabs/fileserver/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-m int      max consecutive failed logins before lockout
//	-l int      lockout duration, minutes
//	-k string   storage backend type ("local" or "s3")
//	-p string   local storage root path
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-o          enable CORS
//	-v string   log level
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers in minutes and converted to time.Duration.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-m", "-l", "-k", "-p", "-b", "-g", "-e", "-o", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidity.Minutes()), "access token validity (in minutes)")
	fs.IntVar(&config.MaxLoginAttempts, "m", config.MaxLoginAttempts, "max failed logins before lockout")
	lockoutDuration := fs.Int("l", int(config.LockoutDuration.Minutes()), "lockout duration (in minutes)")

	fs.StringVar(&config.StorageType, "k", config.StorageType, "storage backend type (local or s3)")
	fs.StringVar(&config.StoragePath, "p", config.StoragePath, "local storage root path")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.BoolVar(&config.EnableCORS, "o", config.EnableCORS, "enable CORS")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidity = time.Duration(*accessTokenValidity) * time.Minute
	config.LockoutDuration = time.Duration(*lockoutDuration) * time.Minute
}
