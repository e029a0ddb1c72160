package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the monitor recognizes.  It is built once at
// startup by Load and never mutated afterwards.
type Config struct {
	// Hosts is the list of hostnames to monitor.  Required.
	Hosts []string

	// TCPPort is the port reachability probes connect to.
	TCPPort int

	// TCPTimeout is the per-attempt connection timeout.
	TCPTimeout time.Duration

	// TCPRetries is the number of connection attempts per probe.
	TCPRetries int

	// AlertThrottle is the minimum interval between repeated CRITICAL
	// alerts for the same host.
	AlertThrottle time.Duration

	// CheckInterval is how often the check cycle fires.
	CheckInterval time.Duration

	// ReportTime is the wall-clock "HH:mm" at which the daily report fires.
	ReportTime string

	// ReportInterval is the period between reports after the first firing.
	ReportInterval time.Duration

	// NotifyTimeout bounds a single notification delivery call.
	NotifyTimeout time.Duration

	LogFile string

	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string
	EmailTo        []string

	// ListenAddress enables the HTTP API when non-empty (ex. ":8080").
	ListenAddress string
}

// ReportClock returns ReportTime parsed into hour and minute components.
// Load guarantees it parses, so errors here only occur on a hand-built Config.
func (c *Config) ReportClock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", c.ReportTime)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid report.time %q: %w", c.ReportTime, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Load reads the properties file at path (key=value lines), overlays any
// matching environment variables, and returns a validated Config.  A missing
// file is fatal; every key has a default except hosts.
//
// Environment variables use the key with dots replaced by underscores and
// upper-cased (ex. tcp.timeout.ms -> TCP_TIMEOUT_MS).
func Load(path string) (*Config, error) {
	props, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("could not load config file %s: %w", path, err)
	}

	get := func(key, fallback string) string {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if v := os.Getenv(envKey); v != "" {
			return v
		}
		if v, ok := props[key]; ok && v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		ReportTime:     get("report.time", "00:00"),
		LogFile:        get("log.file", "hostmon.log"),
		SendGridAPIKey: get("sendgrid.api.key", ""),
		EmailFrom:      get("email.from", ""),
		EmailFromName:  get("email.from.name", "Host Monitor"),
		EmailTo:        splitList(get("email.to", "")),
		Hosts:          splitList(get("hosts", "")),
		ListenAddress:  get("listen.address", ""),
	}

	if cfg.TCPPort, err = parseInt(get("tcp.port", "80"), "tcp.port"); err != nil {
		return nil, err
	}
	if cfg.TCPRetries, err = parseInt(get("tcp.retries", "3"), "tcp.retries"); err != nil {
		return nil, err
	}

	timeoutMs, err := parseInt(get("tcp.timeout.ms", "2000"), "tcp.timeout.ms")
	if err != nil {
		return nil, err
	}
	cfg.TCPTimeout = time.Duration(timeoutMs) * time.Millisecond

	throttleMin, err := parseInt(get("alert.throttle.minutes", "30"), "alert.throttle.minutes")
	if err != nil {
		return nil, err
	}
	cfg.AlertThrottle = time.Duration(throttleMin) * time.Minute

	checkMin, err := parseInt(get("check.interval.minutes", "10"), "check.interval.minutes")
	if err != nil {
		return nil, err
	}
	cfg.CheckInterval = time.Duration(checkMin) * time.Minute

	reportHours, err := parseInt(get("report.interval.hours", "24"), "report.interval.hours")
	if err != nil {
		return nil, err
	}
	cfg.ReportInterval = time.Duration(reportHours) * time.Hour

	notifySec, err := parseInt(get("notify.timeout.seconds", "10"), "notify.timeout.seconds")
	if err != nil {
		return nil, err
	}
	cfg.NotifyTimeout = time.Duration(notifySec) * time.Second

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.Hosts) == 0 {
		return fmt.Errorf("no hosts configured for monitoring")
	}
	if c.TCPPort < 1 || c.TCPPort > 65535 {
		return fmt.Errorf("tcp.port out of range: %d", c.TCPPort)
	}
	if c.TCPRetries < 1 {
		return fmt.Errorf("tcp.retries must be >= 1, got %d", c.TCPRetries)
	}
	if c.TCPTimeout <= 0 {
		return fmt.Errorf("tcp.timeout.ms must be positive")
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("check.interval.minutes must be positive")
	}
	if c.ReportInterval <= 0 {
		return fmt.Errorf("report.interval.hours must be positive")
	}
	if _, _, err := c.ReportClock(); err != nil {
		return err
	}
	return nil
}

func parseInt(v, key string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
