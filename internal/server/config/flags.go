package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/spellcaster/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     gRPC bind address (e.g., ":50051")
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret key
//	-l string     log level (debug, info, warn, error)
//	-L string     ledger gateway base URL
//	-b string     S3 archive bucket
//	-e string     S3 base endpoint (e.g., "http://127.0.0.1:9000")
//	-o string     OTLP/HTTP trace endpoint
//	-f duration   archive flush interval
//
// The args are first filtered with flagx.FilterArgs so flags owned by other
// layers (-c) do not break parsing.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-l", "-L", "-b", "-e", "-o", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LedgerURL, "L", config.LedgerURL, "ledger gateway URL")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 archive bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.OTLPEndpoint, "o", config.OTLPEndpoint, "OTLP trace endpoint")
	fs.DurationVar(&config.ArchiveFlushInterval, "f", config.ArchiveFlushInterval, "archive flush interval")

	return fs.Parse(args)
}
