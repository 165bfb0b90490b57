package connector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
)

func TestCertificate_PEM(t *testing.T) {
	ks := &TLS{
		KeyStoreURL:  fileURL(t, generateKeyStorePEM(t)),
		KeyStoreType: KeyStorePEM,
	}

	cert, err := ks.certificate(context.Background())
	if err != nil {
		t.Fatalf("certificate() = %v, want nil", err)
	}
	if len(cert.Certificate) == 0 {
		t.Error("certificate chain is empty")
	}
}

func TestCertificate_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		ks     *TLS
		expErr error
	}{
		{
			name: "Missing URL",
			ks: &TLS{
				KeyStoreType: KeyStorePEM,
			},
			expErr: ErrKeyStoreURLRequired,
		},
		{
			name: "Unknown type",
			ks: &TLS{
				KeyStoreURL:  &url.URL{Scheme: "file", Path: "/dev/null"},
				KeyStoreType: "BKS",
			},
			expErr: ErrUnknownKeyStoreType,
		},
		{
			name: "Empty type",
			ks: &TLS{
				KeyStoreURL:  fileURL(t, generateKeyStorePEM(t)),
				KeyStoreType: "",
			},
			expErr: ErrUnknownKeyStoreType,
		},
		{
			name: "Missing file",
			ks: &TLS{
				KeyStoreURL:  &url.URL{Scheme: "file", Path: "/nonexistent/keystore.pem"},
				KeyStoreType: KeyStorePEM,
			},
			expErr: os.ErrNotExist,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.ks.certificate(context.Background())
			if err == nil {
				t.Fatal("certificate() = nil, want error")
			}
			if tc.expErr != nil && !errors.Is(err, tc.expErr) {
				t.Errorf("exp err %v; got: %v", tc.expErr, err)
			}
		})
	}
}

func TestCertificate_CorruptContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore.p12")
	if err := os.WriteFile(path, []byte("not a keystore"), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, typ := range []string{KeyStorePKCS12, KeyStoreJKS} {
		t.Run(typ, func(t *testing.T) {
			ks := &TLS{
				KeyStoreURL:      fileURL(t, path),
				KeyStoreType:     typ,
				KeyStorePassword: "changeit",
			}

			if _, err := ks.certificate(context.Background()); err == nil {
				t.Error("certificate() = nil, want decode error")
			}
		})
	}
}

func TestRead_HTTPKeystore(t *testing.T) {
	pemPath := generateKeyStorePEM(t)
	data, err := os.ReadFile(pemPath)
	if err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer server.Close()

	u, err := url.Parse(server.URL + "/keystore.pem")
	if err != nil {
		t.Fatal(err)
	}

	ks := &TLS{KeyStoreURL: u, KeyStoreType: KeyStorePEM}

	cert, err := ks.certificate(context.Background())
	if err != nil {
		t.Fatalf("certificate() = %v, want nil for http keystore", err)
	}
	if len(cert.Certificate) == 0 {
		t.Error("certificate chain is empty")
	}
}

func TestRead_HTTPKeystoreBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	u, err := url.Parse(server.URL + "/keystore.pem")
	if err != nil {
		t.Fatal(err)
	}

	ks := &TLS{KeyStoreURL: u, KeyStoreType: KeyStorePEM}

	if _, err := ks.certificate(context.Background()); err == nil {
		t.Error("certificate() = nil, want error for 404 keystore fetch")
	}
}

func TestRead_UnsupportedScheme(t *testing.T) {
	ks := &TLS{
		KeyStoreURL:  &url.URL{Scheme: "ftp", Host: "example.com", Path: "/keystore.p12"},
		KeyStoreType: KeyStorePKCS12,
	}

	if _, err := ks.certificate(context.Background()); err == nil {
		t.Error("certificate() = nil, want error for unsupported scheme")
	}
}
