package connector

import (
	"context"
	"crypto/tls"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/crypto/pkcs12"
)

// Keystore container formats. JKS names the dual-format container of
// the modern JVM, whose on-disk representation is PKCS#12, so both
// decode the same way; PEM is a concatenated certificate/key file.
const (
	KeyStoreJKS    = "JKS"
	KeyStorePKCS12 = "PKCS12"
	KeyStorePEM    = "PEM"
)

var (
	ErrKeyStoreURLRequired = errors.New("keystore url must be set")
	ErrUnknownKeyStoreType = errors.New("unsupported keystore type")
)

// TLS holds the certificate material settings of an encrypted listener.
// The password applies to the container and may be empty. With more
// than one certificate in the keystore, which of them serves is
// unspecified.
type TLS struct {
	KeyStoreURL      *url.URL
	KeyStoreType     string
	KeyStorePassword string
}

// certificate loads the keystore and decodes it into a serving pair.
func (t *TLS) certificate(ctx context.Context) (tls.Certificate, error) {
	if t.KeyStoreURL == nil {
		return tls.Certificate{}, ErrKeyStoreURLRequired
	}

	data, err := t.read(ctx)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("reading keystore: %w", err)
	}

	switch strings.ToUpper(t.KeyStoreType) {
	case KeyStoreJKS, KeyStorePKCS12:
		blocks, err := pkcs12.ToPEM(data, t.KeyStorePassword)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("decoding %s keystore: %w", t.KeyStoreType, err)
		}

		var pemData []byte
		for _, b := range blocks {
			pemData = append(pemData, pem.EncodeToMemory(b)...)
		}

		cert, err := tls.X509KeyPair(pemData, pemData)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("assembling keystore pair: %w", err)
		}

		return cert, nil

	case KeyStorePEM:
		cert, err := tls.X509KeyPair(data, data)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("decoding PEM keystore: %w", err)
		}

		return cert, nil

	default:
		return tls.Certificate{}, fmt.Errorf("keystore type %q %w", t.KeyStoreType, ErrUnknownKeyStoreType)
	}
}

// read fetches the raw keystore bytes. File URLs and bare paths read
// from disk; http(s) URLs are fetched remotely.
func (t *TLS) read(ctx context.Context) ([]byte, error) {
	switch t.KeyStoreURL.Scheme {
	case "", "file":
		path := t.KeyStoreURL.Path
		if path == "" {
			path = t.KeyStoreURL.Opaque
		}

		return os.ReadFile(path)

	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.KeyStoreURL.String(), nil)
		if err != nil {
			return nil, err
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetching %s: unexpected status %d", t.KeyStoreURL, resp.StatusCode)
		}

		return io.ReadAll(resp.Body)

	default:
		return nil, fmt.Errorf("unsupported keystore url scheme %q", t.KeyStoreURL.Scheme)
	}
}
