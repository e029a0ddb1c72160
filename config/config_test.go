package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hostmon.properties")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "hosts=a.test,b.test\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Hosts) != 2 || cfg.Hosts[0] != "a.test" || cfg.Hosts[1] != "b.test" {
		t.Errorf("unexpected hosts: %v", cfg.Hosts)
	}
	if cfg.TCPPort != 80 {
		t.Errorf("expected default port 80, got %d", cfg.TCPPort)
	}
	if cfg.TCPTimeout != 2000*time.Millisecond {
		t.Errorf("expected default timeout 2s, got %v", cfg.TCPTimeout)
	}
	if cfg.TCPRetries != 3 {
		t.Errorf("expected default retries 3, got %d", cfg.TCPRetries)
	}
	if cfg.AlertThrottle != 30*time.Minute {
		t.Errorf("expected default throttle 30m, got %v", cfg.AlertThrottle)
	}
	if cfg.CheckInterval != 10*time.Minute {
		t.Errorf("expected default check interval 10m, got %v", cfg.CheckInterval)
	}
	if cfg.ReportTime != "00:00" {
		t.Errorf("expected default report time 00:00, got %s", cfg.ReportTime)
	}
	if cfg.ReportInterval != 24*time.Hour {
		t.Errorf("expected default report interval 24h, got %v", cfg.ReportInterval)
	}
	if cfg.EmailFromName != "Host Monitor" {
		t.Errorf("expected default from name, got %q", cfg.EmailFromName)
	}
}

func TestLoad_ExplicitValues(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"hosts= a.test , b.test,",
		"tcp.port=8443",
		"tcp.timeout.ms=500",
		"tcp.retries=1",
		"alert.throttle.minutes=5",
		"report.time=06:15",
		"email.to=one@example.com, two@example.com",
	}, "\n") + "\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.TCPPort != 8443 {
		t.Errorf("expected port 8443, got %d", cfg.TCPPort)
	}
	if cfg.TCPTimeout != 500*time.Millisecond {
		t.Errorf("expected timeout 500ms, got %v", cfg.TCPTimeout)
	}
	if cfg.AlertThrottle != 5*time.Minute {
		t.Errorf("expected throttle 5m, got %v", cfg.AlertThrottle)
	}
	if len(cfg.EmailTo) != 2 {
		t.Errorf("expected 2 recipients, got %v", cfg.EmailTo)
	}

	hour, minute, err := cfg.ReportClock()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hour != 6 || minute != 15 {
		t.Errorf("expected 06:15, got %02d:%02d", hour, minute)
	}
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.properties")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_NoHostsIsFatal(t *testing.T) {
	path := writeConfig(t, "tcp.port=80\n")

	if _, err := Load(path); err == nil {
		t.Error("expected error when no hosts configured")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad port number": "hosts=a.test\ntcp.port=http\n",
		"port range":      "hosts=a.test\ntcp.port=70000\n",
		"zero retries":    "hosts=a.test\ntcp.retries=0\n",
		"bad report time": "hosts=a.test\nreport.time=25:99\n",
	}

	for name, content := range cases {
		if _, err := Load(writeConfig(t, content)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	path := writeConfig(t, "hosts=a.test\ntcp.port=80\n")

	t.Setenv("TCP_PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TCPPort != 9090 {
		t.Errorf("expected env override 9090, got %d", cfg.TCPPort)
	}
}
