// Package config provides application configuration structures and helpers.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

// ErrConfig wraps every error that prevents the exporter from starting.
var ErrConfig = errors.New("invalid configuration")

const (
	defaultPollInterval = 5
	defaultListen       = "127.0.0.1:3030"
	defaultLogLevel     = "info"
)

// ExporterConfig holds the configuration settings for the exporter.
type ExporterConfig struct {
	Endpoint       string `env:"ENDPOINT"`        // Game server host:port
	PollInterval   int    `env:"UPDATE_INTERVAL"` // Interval between queries (in seconds)
	TokenFile      string `env:"TOKEN_FILE"`      // File with the bearer token
	AllowInsecure  bool   `env:"ALLOW_INSECURE"`  // Skip TLS certificate verification
	Listen         string `env:"LISTEN"`          // Address of the /metrics endpoint
	RequestTimeout int    `env:"REQUEST_TIMEOUT"` // Query timeout (in seconds), capped by PollInterval
	CAFile         string `env:"CA_FILE"`         // PEM bundle with extra root certificates
	LogLevel       string `env:"LOG_LEVEL"`

	Token  string // Bearer token read from TokenFile
	Logger *zap.SugaredLogger
}

// NewExporterConfig builds the configuration from command line flags,
// environment variables and an optional JSON file, then validates it.
func NewExporterConfig() (*ExporterConfig, error) {
	return load(flag.CommandLine, os.Args[1:])
}

func load(fs *flag.FlagSet, args []string) (*ExporterConfig, error) {
	// 0) defaults
	cfg := &ExporterConfig{
		PollInterval: defaultPollInterval,
		Listen:       defaultListen,
		LogLevel:     defaultLogLevel,
	}

	// 1) flags
	var fEndpoint, fToken, fListen, fCA, fLevel, fConf strFlag
	var fInterval, fTimeout intFlag
	var fInsecure boolFlag
	fs.Var(&fInterval, "u", "interval in seconds between each query to the server")
	fs.Var(&fEndpoint, "e", "hostname and port of the server to query")
	fs.Var(&fToken, "t", "file containing the bearer token to use for authentication")
	fs.Var(&fInsecure, "k", "allow insecure connections (e.g. a server with a self-signed certificate)")
	fs.Var(&fListen, "l", "address:port the metrics endpoint listens on")
	fs.Var(&fTimeout, "timeout", "query timeout in seconds (defaults to the update interval)")
	fs.Var(&fCA, "ca-file", "PEM file with additional root certificates")
	fs.Var(&fLevel, "log-level", "log level (debug, info, warn, error)")
	fs.Var(&fConf, "c", "Path to JSON config file")
	fs.Var(&fConf, "config", "Path to JSON config file (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	// 2) JSON (lowest priority after defaults)
	if fConf.v == "" {
		fConf.v = os.Getenv("CONFIG")
	}
	if fConf.v != "" {
		js, err := loadExporterJSON(fConf.v)
		if err != nil {
			return nil, fmt.Errorf("%w: config file %s: %v", ErrConfig, fConf.v, err)
		}
		if err := js.apply(cfg); err != nil {
			return nil, fmt.Errorf("%w: config file %s: %v", ErrConfig, fConf.v, err)
		}
	}

	if fEndpoint.set {
		cfg.Endpoint = fEndpoint.v
	}
	if fInterval.set {
		cfg.PollInterval = fInterval.v
	}
	if fToken.set {
		cfg.TokenFile = fToken.v
	}
	if fInsecure.set {
		cfg.AllowInsecure = fInsecure.v
	}
	if fListen.set {
		cfg.Listen = fListen.v
	}
	if fTimeout.set {
		cfg.RequestTimeout = fTimeout.v
	}
	if fCA.set {
		cfg.CAFile = fCA.v
	}
	if fLevel.set {
		cfg.LogLevel = fLevel.v
	}

	// 3) environment
	if err := readExporterEnvironment(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.TokenFile != "" {
		token, err := readToken(cfg.TokenFile)
		if err != nil {
			return nil, err
		}
		cfg.Token = token
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	cfg.Logger = logger

	return cfg, nil
}

func readExporterEnvironment(cfg *ExporterConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return nil
}

func (cfg *ExporterConfig) validate() error {
	cfg.Endpoint = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(cfg.Endpoint), "https://"), "/")
	if cfg.Endpoint == "" {
		return fmt.Errorf("%w: endpoint is required", ErrConfig)
	}
	if strings.Contains(cfg.Endpoint, "://") {
		return fmt.Errorf("%w: endpoint %q must be host:port", ErrConfig, cfg.Endpoint)
	}

	if cfg.PollInterval < 1 {
		return fmt.Errorf("%w: update interval must be at least 1 second, got %d", ErrConfig, cfg.PollInterval)
	}

	if cfg.RequestTimeout < 0 {
		return fmt.Errorf("%w: request timeout must not be negative, got %d", ErrConfig, cfg.RequestTimeout)
	}
	if cfg.RequestTimeout == 0 || cfg.RequestTimeout > cfg.PollInterval {
		cfg.RequestTimeout = cfg.PollInterval
	}

	host, port, err := net.SplitHostPort(cfg.Listen)
	if err != nil {
		return fmt.Errorf("%w: listen address %q: %v", ErrConfig, cfg.Listen, err)
	}
	if host != "" && net.ParseIP(host) == nil {
		return fmt.Errorf("%w: listen address %q: host must be an IP address", ErrConfig, cfg.Listen)
	}
	if p, err := strconv.Atoi(port); err != nil || p < 0 || p > 65535 {
		return fmt.Errorf("%w: listen address %q: invalid port", ErrConfig, cfg.Listen)
	}

	return nil
}

func readToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read token file: %v", ErrConfig, err)
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", fmt.Errorf("%w: token file %s is empty", ErrConfig, path)
	}
	return token, nil
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: log level: %v", ErrConfig, err)
	}

	logCfg := zap.NewProductionConfig()
	logCfg.Level = lvl
	logCfg.OutputPaths = []string{"stdout"}

	logger, err := logCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Sugar(), nil
}
