package config

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/kylelemons/godebug/pretty"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    *Config
		wantErr bool
	}{
		{
			name: "rest defaults",
			content: `
devices:
  - name: lb1
    address: 10.0.0.1
    credentials:
      username: admin
      password: admin
`,
			want: &Config{
				Exporter: &Exporter{
					Address:        defaultExporterAddress,
					MaxConcurrency: defaultExporterConcurrency,
					ScrapeTimeout:  defaultScrapeTimeout,
				},
				Devices: []*DeviceConfig{
					{
						Name:        "lb1",
						Address:     "10.0.0.1",
						Port:        443,
						Transport:   TransportREST,
						Credentials: &Creds{Username: "admin", Password: "admin"},
						TLS:         &TLS{SkipVerify: true},
						TokenAuth:   pointer.ToBool(true),
						Timeout:     60 * time.Second,
						Upload: &Upload{
							Mode:        UploadModeSingleShot,
							ChunkSize:   512 * 1024,
							StagingDir:  "/tmp",
							DownloadDir: "/var/config/rest/downloads",
						},
					},
				},
			},
		},
		{
			name: "icontrol with ssh",
			content: `
exporter:
  address: 127.0.0.1:9000
devices:
  - address: lb2.example.com
    transport: icontrol
    timeout: 10s
    credentials:
      username: admin
      password: admin
    ssh: {}
`,
			want: &Config{
				Exporter: &Exporter{
					Address:        "127.0.0.1:9000",
					MaxConcurrency: defaultExporterConcurrency,
					ScrapeTimeout:  defaultScrapeTimeout,
				},
				Devices: []*DeviceConfig{
					{
						Name:        "lb2.example.com",
						Address:     "lb2.example.com",
						Port:        443,
						Transport:   TransportIControl,
						Credentials: &Creds{Username: "admin", Password: "admin"},
						TLS:         &TLS{SkipVerify: true},
						TokenAuth:   pointer.ToBool(true),
						Timeout:     10 * time.Second,
						Upload: &Upload{
							Mode:        UploadModeChunked,
							ChunkSize:   512 * 1024,
							StagingDir:  "/var/local/scf",
							DownloadDir: "/var/config/rest/downloads",
						},
						SSH: &SSH{Port: 22, Timeout: 10 * time.Second},
					},
				},
			},
		},
		{
			name: "unknown transport",
			content: `
devices:
  - address: 10.0.0.1
    transport: netconf
    credentials: {username: admin}
`,
			wantErr: true,
		},
		{
			name: "chunked over rest",
			content: `
devices:
  - address: 10.0.0.1
    credentials: {username: admin}
    upload: {mode: chunked}
`,
			wantErr: true,
		},
		{
			name: "missing credentials",
			content: `
devices:
  - address: 10.0.0.1
`,
			wantErr: true,
		},
		{
			name: "duplicate names",
			content: `
devices:
  - {name: lb, address: 10.0.0.1, credentials: {username: admin}}
  - {name: lb, address: 10.0.0.2, credentials: {username: admin}}
`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(file, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			got, err := New(file)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := pretty.Compare(got, tt.want); diff != "" {
				t.Errorf("New() diff (-got +want):\n%s", diff)
			}
		})
	}
}

func TestConfig_Device(t *testing.T) {
	c := &Config{Devices: []*DeviceConfig{{Name: "a"}, {Name: "b"}}}
	if _, err := c.Device(""); err == nil {
		t.Errorf("Device(\"\") with two devices should fail")
	}
	d, err := c.Device("b")
	if err != nil || d.Name != "b" {
		t.Errorf("Device(b) = %v, %v", d, err)
	}
	if _, err := c.Device("c"); err == nil {
		t.Errorf("Device(c) should fail")
	}
	single := &Config{Devices: []*DeviceConfig{{Name: "only"}}}
	d, err = single.Device("")
	if err != nil || d.Name != "only" {
		t.Errorf("Device(\"\") = %v, %v", d, err)
	}
}

func TestDefaultThresholds(t *testing.T) {
	th, err := DefaultThresholds()
	if err != nil {
		t.Fatal(err)
	}
	if th.AlertRatio != 0.7 {
		t.Errorf("AlertRatio = %v, want 0.7", th.AlertRatio)
	}
	l, ok := th.Lookup("12000_D111", "3")
	if !ok {
		t.Fatalf("sensor 3 of 12000_D111 not found")
	}
	if diff := pretty.Compare(l, SensorLimit{Critical: 40, Location: "Main board inlet transistor temperature"}); diff != "" {
		t.Errorf("Lookup() diff:\n%s", diff)
	}
	l, ok = th.Lookup("VIPRION_A114", "Host Trident")
	if !ok || l.Critical != 83 {
		t.Errorf("Lookup(VIPRION_A114, Host Trident) = %v, %v", l, ok)
	}
	if _, ok := th.Lookup("unknown", "1"); ok {
		t.Errorf("Lookup on an unknown model should fail")
	}

	// every call returns an independent copy
	th.Models["12000_D111"]["3"] = SensorLimit{Critical: 1}
	again, err := DefaultThresholds()
	if err != nil {
		t.Fatal(err)
	}
	if l, _ := again.Lookup("12000_D111", "3"); l.Critical != 40 {
		t.Errorf("default table was mutated: %v", l)
	}
}

func TestLoadThresholds(t *testing.T) {
	file := filepath.Join(t.TempDir(), "thresholds.yaml")
	content := `
alert-ratio: 0.5
models:
  X_1:
    "1": {critical: 60}
`
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	th, err := LoadThresholds(file)
	if err != nil {
		t.Fatal(err)
	}
	want := &Thresholds{
		AlertRatio: 0.5,
		Models: map[string]map[string]SensorLimit{
			"X_1": {"1": {Critical: 60, Location: "1"}},
		},
	}
	if diff := pretty.Compare(th, want); diff != "" {
		t.Errorf("LoadThresholds() diff:\n%s", diff)
	}

	if err := os.WriteFile(file, []byte("alert-ratio: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadThresholds(file); err == nil {
		t.Errorf("alert-ratio above 1 should be rejected")
	}
}

func writeKeyPair(t *testing.T, dir string) (string, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "bigip-driver"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}
	certFile := filepath.Join(dir, "client.crt")
	keyFile := filepath.Join(dir, "client.key")
	if err := os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600); err != nil {
		t.Fatal(err)
	}
	return certFile, keyFile
}

func TestTLS_NewConfig(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := t.TempDir()
	certFile, keyFile := writeKeyPair(t, dir)

	cfg, err := (&TLS{Cert: certFile, Key: keyFile, SkipVerify: true}).NewConfig(ctx)
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	if !cfg.InsecureSkipVerify {
		t.Errorf("skip-verify not applied")
	}
	if cfg.GetClientCertificate == nil {
		t.Fatalf("no client certificate callback")
	}
	got, err := cfg.GetClientCertificate(&tls.CertificateRequestInfo{})
	if err != nil {
		t.Fatal(err)
	}
	want, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Certificate) != 1 || !bytes.Equal(got.Certificate[0], want.Certificate[0]) {
		t.Errorf("client certificate differs from %s", certFile)
	}

	cfg, err = (&TLS{}).NewConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GetClientCertificate != nil || cfg.RootCAs != nil {
		t.Errorf("empty TLS section produced %+v", cfg)
	}
}

func TestTLS_NewConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		tls  *TLS
	}{
		{name: "missing CA", tls: &TLS{CA: filepath.Join(dir, "ca.crt")}},
		{name: "missing key pair", tls: &TLS{Cert: filepath.Join(dir, "c.crt"), Key: filepath.Join(dir, "c.key")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.tls.NewConfig(context.Background()); err == nil {
				t.Errorf("NewConfig() succeeded")
			}
		})
	}
}
