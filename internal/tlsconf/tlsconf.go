// Package tlsconf builds the TLS settings used to reach the game server.
package tlsconf

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

var (
	ErrNoPEMBlocks     = errors.New("no PEM blocks found")
	ErrNoCertificates  = errors.New("PEM contains no certificates")
	ErrInvalidCertData = errors.New("invalid certificate")
)

// LoadCertPool reads a PEM bundle and returns the system roots extended with
// every certificate found in it.
func LoadCertPool(path string) (*x509.CertPool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read CA file: %w", err)
	}
	return LoadCertPoolFromBytes(b)
}

// LoadCertPoolFromBytes parses "CERTIFICATE" blocks from PEM bytes. Other
// block types (keys, CRLs) are skipped.
func LoadCertPoolFromBytes(pemBytes []byte) (*x509.CertPool, error) {
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}

	var found, added bool
	for {
		var block *pem.Block
		block, pemBytes = pem.Decode(pemBytes)
		if block == nil {
			break
		}
		found = true

		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCertData, err)
		}
		pool.AddCert(cert)
		added = true
	}

	if !found {
		return nil, ErrNoPEMBlocks
	}
	if !added {
		return nil, ErrNoCertificates
	}
	return pool, nil
}

// Config returns the client TLS configuration. Verification is disabled
// only when insecure is set.
func Config(insecure bool, caFile string) (*tls.Config, error) {
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: insecure,
	}
	if caFile != "" {
		pool, err := LoadCertPool(caFile)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}
