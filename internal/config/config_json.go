package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type exporterJSON struct {
	Endpoint       *string `json:"endpoint"`
	UpdateInterval *string `json:"update_interval"` // "5s"
	TokenFile      *string `json:"token_file"`
	AllowInsecure  *bool   `json:"allow_insecure"`
	Listen         *string `json:"listen"`
	RequestTimeout *string `json:"request_timeout"` // "3s"
	CAFile         *string `json:"ca_file"`
	LogLevel       *string `json:"log_level"`
}

func loadExporterJSON(path string) (*exporterJSON, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg exporterJSON
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (js *exporterJSON) apply(cfg *ExporterConfig) error {
	if js.Endpoint != nil {
		cfg.Endpoint = *js.Endpoint
	}
	if js.UpdateInterval != nil {
		sec, err := parseDurationSeconds(*js.UpdateInterval)
		if err != nil {
			return err
		}
		cfg.PollInterval = sec
	}
	if js.TokenFile != nil {
		cfg.TokenFile = *js.TokenFile
	}
	if js.AllowInsecure != nil {
		cfg.AllowInsecure = *js.AllowInsecure
	}
	if js.Listen != nil {
		cfg.Listen = *js.Listen
	}
	if js.RequestTimeout != nil {
		sec, err := parseDurationSeconds(*js.RequestTimeout)
		if err != nil {
			return err
		}
		cfg.RequestTimeout = sec
	}
	if js.CAFile != nil {
		cfg.CAFile = *js.CAFile
	}
	if js.LogLevel != nil {
		cfg.LogLevel = *js.LogLevel
	}
	return nil
}

func parseDurationSeconds(s string) (int, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d%time.Second != 0 {
		return 0, fmt.Errorf("duration %q is not a whole number of seconds", s)
	}
	return int(d / time.Second), nil
}
