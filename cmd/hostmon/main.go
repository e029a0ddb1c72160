package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hostmon/hostmon/config"
	"github.com/hostmon/hostmon/host"
	"github.com/hostmon/hostmon/monitor"
	"github.com/hostmon/hostmon/notify"
	"github.com/hostmon/hostmon/probe"
	"github.com/hostmon/hostmon/server"
)

const defaultConfigFile = "hostmon.properties"

func main() {
	args := os.Args[1:]

	configPath := defaultConfigFile
	if v := os.Getenv("HOSTMON_CONFIG"); v != "" {
		configPath = v
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help":
			printHelp()
			os.Exit(0)
		case "--config":
			if i+1 < len(args) {
				configPath = args[i+1]
			}
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Error starting host monitor: %v", err)
	}

	setupLogging(cfg.LogFile)

	registry := host.NewRegistry(cfg.Hosts)
	for _, h := range registry.Hosts() {
		log.Printf("Added host to monitor: %s", h)
	}

	prober := &probe.TCPProber{
		Port:    cfg.TCPPort,
		Timeout: cfg.TCPTimeout,
		Retries: cfg.TCPRetries,
	}

	mon := &monitor.Monitor{
		Registry:            registry,
		Prober:              prober,
		Evaluator:           monitor.Evaluator{Throttle: cfg.AlertThrottle},
		Notifier:            buildNotifier(cfg),
		Recipients:          cfg.EmailTo,
		NotifyTimeout:       cfg.NotifyTimeout,
		MaxConcurrentProbes: 10,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runDebugArgs(ctx, mon, args)

	reportHour, reportMinute, _ := cfg.ReportClock()
	sched := &monitor.Scheduler{
		Monitor:        mon,
		CheckInterval:  cfg.CheckInterval,
		ReportHour:     reportHour,
		ReportMinute:   reportMinute,
		ReportInterval: cfg.ReportInterval,
	}

	if cfg.ListenAddress != "" {
		api := server.New(cfg.ListenAddress, mon)
		go func() {
			log.Printf("HTTP API listening on %s", cfg.ListenAddress)
			if err := api.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http api error: %v", err)
			}
		}()
		defer api.Shutdown(context.Background())
	}

	sched.Run(ctx)

	log.Println("Exiting.")
}

// runDebugArgs executes any one-shot debug flags before monitoring starts.
// Unknown arguments are logged and ignored, never fatal.
func runDebugArgs(ctx context.Context, mon *monitor.Monitor, args []string) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--check-now":
			log.Println("Debug mode: Checking hosts immediately")
			mon.CheckCycle(ctx)
		case "--send-report":
			log.Println("Debug mode: Sending daily report immediately")
			mon.ReportCycle(ctx)
		case "--simulate-down":
			if i+1 < len(args) {
				i++
				log.Printf("Debug mode: Simulating host down for: %s", args[i])
				mon.SimulateDown(ctx, args[i])
			} else {
				log.Println("--simulate-down requires a hostname parameter")
			}
		case "--config":
			i++ // operand consumed during startup
		default:
			log.Printf("Unknown argument: %s", args[i])
		}
	}
}

func buildNotifier(cfg *config.Config) notify.Notifier {
	if cfg.SendGridAPIKey == "" || cfg.EmailFrom == "" || len(cfg.EmailTo) == 0 {
		log.Println("Mail delivery not configured; notifications will be logged only")
		return &notify.LogNotifier{}
	}
	return notify.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName, cfg.NotifyTimeout)
}

func setupLogging(logFile string) {
	if logFile == "" {
		return
	}
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("Could not setup logging to %s: %v", logFile, err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	log.Printf("Logging initialized to: %s", logFile)
}

func printHelp() {
	fmt.Println("Host Monitor - Probes hosts over TCP and sends status reports")
	fmt.Println("Options:")
	fmt.Println("  --config <file>   Path to the properties config file")
	fmt.Println("  --check-now       Check all hosts immediately")
	fmt.Println("  --send-report     Send daily report immediately")
	fmt.Println("  --simulate-down   Simulate a host being down")
	fmt.Println("  --help            Show this help message")
}
