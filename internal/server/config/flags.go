package config

import (
	"flag"
	"os"
	"time"

	"github.com/connectinghands/handshare/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-l string   public base URL for signed download links
//	-d string   PostgreSQL DSN
//	-s string   download URL signing secret
//	-t int      download URL validity, minutes
//	-n int      share code length
//	-m int      max model size, MiB
//	-k string   storage backend ("local" or "s3")
//	-o string   local storage directory
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - The TTL flag is accepted as an integer in minutes, the size flag as an
//     integer in MiB; both are converted afterwards.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-l", "-d", "-s", "-t", "-n", "-m", "-k", "-o", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.PublicBaseURL, "l", config.PublicBaseURL, "public base URL")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SigningSecret, "s", config.SigningSecret, "download URL signing secret")

	downloadURLTTL := fs.Int("t", int(config.DownloadURLTTL.Minutes()), "download_url_ttl (in minutes)")
	fs.IntVar(&config.ShareCodeLength, "n", config.ShareCodeLength, "share code length")
	maxModelSizeMiB := fs.Int64("m", config.MaxModelSizeBytes/(1024*1024), "max model size (in MiB)")

	fs.StringVar(&config.StorageBackend, "k", config.StorageBackend, "storage backend (local or s3)")
	fs.StringVar(&config.StorageDir, "o", config.StorageDir, "local storage directory")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.DownloadURLTTL = time.Duration(*downloadURLTTL) * time.Minute
	config.MaxModelSizeBytes = *maxModelSizeMiB * 1024 * 1024
}
