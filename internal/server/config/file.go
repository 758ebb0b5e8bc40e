package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/spellcaster/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Intervals use
// timex.Duration so files can say "10s" or give integer nanoseconds.
type FileConfig struct {
	EndpointAddrGRPC     string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN          string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey            string         `json:"secret_key" yaml:"secret_key"`
	LogLevel             string         `json:"log_level" yaml:"log_level"`
	LedgerURL            string         `json:"ledger_url" yaml:"ledger_url"`
	LedgerTimeout        timex.Duration `json:"ledger_timeout" yaml:"ledger_timeout"`
	S3AccessKey          string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey          string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3Bucket             string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region             string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint       string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3Prefix             string         `json:"s3_prefix" yaml:"s3_prefix"`
	ArchiveBatchSize     int            `json:"archive_batch_size" yaml:"archive_batch_size"`
	ArchiveFlushInterval timex.Duration `json:"archive_flush_interval" yaml:"archive_flush_interval"`
	OTLPEndpoint         string         `json:"otlp_endpoint" yaml:"otlp_endpoint"`
	ServiceName          string         `json:"service_name" yaml:"service_name"`
	ShutdownTimeout      timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// parseFile overlays the file at path onto config. ".yaml" and ".yml" files
// are read as YAML, anything else as JSON. An empty path loads nothing.
func parseFile(config *Config, path string) error {
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, c)
	default:
		err = json.Unmarshal(b, c)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LedgerURL, c.LedgerURL)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3Prefix, c.S3Prefix)
	setString(&config.OTLPEndpoint, c.OTLPEndpoint)
	setString(&config.ServiceName, c.ServiceName)

	if c.LedgerTimeout.Duration != 0 {
		config.LedgerTimeout = c.LedgerTimeout.Duration
	}
	if c.ArchiveBatchSize != 0 {
		config.ArchiveBatchSize = c.ArchiveBatchSize
	}
	if c.ArchiveFlushInterval.Duration != 0 {
		config.ArchiveFlushInterval = c.ArchiveFlushInterval.Duration
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
