package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/examkeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   ops HTTP bind address (e.g., ":8080")
//	-n string   database driver: pgx or sqlite
//	-d string   database DSN
//	-s string   voucher signing secret key
//	-t int      token validity window, minutes
//	-v int      voucher validity, minutes
//	-w int      workbook validity, minutes
//	-k string   credentials backend: memory or redis
//	-x string   Redis address
//	-y string   catalog YAML file to seed
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Only the flags listed above are passed to the flag set, see flagx.FilterArgs.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-m", "-n", "-d", "-s", "-t", "-v", "-w", "-k", "-x", "-y", "-u", "-p", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&config.EndpointAddrHTTP, "m", config.EndpointAddrHTTP, "address and port to run ops HTTP server")
	fs.StringVar(&config.DatabaseDriver, "n", config.DatabaseDriver, "database driver (pgx or sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity window (in minutes)")
	voucherValidity := fs.Int("v", int(config.VoucherValidityDuration.Minutes()), "voucher validity (in minutes)")
	workbookValidity := fs.Int("w", int(config.WorkbookValidityDuration.Minutes()), "workbook validity (in minutes)")

	fs.StringVar(&config.CredentialsBackend, "k", config.CredentialsBackend, "credentials backend (memory or redis)")
	fs.StringVar(&config.RedisAddr, "x", config.RedisAddr, "Redis address")
	fs.StringVar(&config.CatalogFile, "y", config.CatalogFile, "catalog YAML file")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	config.VoucherValidityDuration = time.Duration(*voucherValidity) * time.Minute
	config.WorkbookValidityDuration = time.Duration(*workbookValidity) * time.Minute
}
