package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dns-speedtest/pkg/config"
	"dns-speedtest/pkg/fleet"
	"dns-speedtest/pkg/logging"
	"dns-speedtest/pkg/probe"
	"dns-speedtest/pkg/report"
	"dns-speedtest/pkg/telemetry"
)

var (
	configPath = flag.String("config", "", "Path to YAML configuration file (optional)")
	mode       = flag.String("mode", "udp", "Probe transport: udp or doh")
	queries    = flag.Int("queries", 0, "Probes per resolver (0 = mode default)")
	workers    = flag.Int("workers", 0, "Concurrent resolver samplings (0 = mode default)")
	timeout    = flag.Duration("timeout", 0, "Per-probe timeout (0 = mode default)")
	topN       = flag.Int("top", 0, "Ranked table length (0 = default)")
	listOnly   = flag.Bool("list", false, "List configured resolvers and exit")
	version    = "dev"
	buildTime  = "unknown"
)

// stringList collects repeatable flag values.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var add, remove stringList
	flag.Var(&add, "add", "Add a resolver as name=address (repeatable)")
	flag.Var(&remove, "remove", "Remove a configured resolver by name (repeatable)")
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := editResolvers(cfg, add, remove); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)

	if *listOnly {
		printResolvers(cfg)
		return
	}

	logger.Debug("dns-speedtest starting",
		"version", version,
		"build_time", buildTime,
		"mode", cfg.Mode,
	)

	// An interrupt cancels the run; whatever finished is still reported.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telem, err := telemetry.New(ctx, &cfg.Telemetry, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	metrics, err := telem.InitMetrics()
	if err != nil {
		logger.Error("Failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	renderer := report.NewRenderer(os.Stdout)
	renderer.Header(len(cfg.Resolvers), cfg.Queries)

	tester := &fleet.Tester{
		NewProbe:    probeFactory(cfg),
		Concurrency: cfg.Workers,
		OnResult:    renderer.Progress,
		Logger:      logger,
		Metrics:     metrics,
	}

	results := tester.Run(ctx, cfg.Resolvers, cfg.Domains, cfg.Queries)

	if ctx.Err() != nil {
		renderer.Aborted()
	}
	renderer.Summary(results, cfg.TopN)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := telem.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during telemetry shutdown", "error", err)
	}
}

// loadConfig builds the run configuration from the optional config file
// and command-line overrides. Only flags the user actually set override
// the file.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.LoadWithDefaults(config.Mode(*mode))
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = config.Mode(*mode)
		case "queries":
			cfg.Queries = *queries
		case "workers":
			cfg.Workers = *workers
		case "timeout":
			cfg.TimeoutSeconds = timeout.Seconds()
		case "top":
			cfg.TopN = *topN
		}
	})
	cfg.ApplyDefaults()

	return cfg, nil
}

// probeFactory selects the probe transport for the run.
func probeFactory(cfg *config.Config) fleet.ProbeFactory {
	probeTimeout := cfg.Timeout()
	if cfg.Mode == config.ModeDoH {
		return func(address string) probe.Probe {
			return probe.NewHTTPS(address, probeTimeout)
		}
	}
	return func(address string) probe.Probe {
		return probe.NewUDP(address, probeTimeout)
	}
}

// editResolvers applies -add and -remove to the configured resolver set.
func editResolvers(cfg *config.Config, add, remove []string) error {
	for _, entry := range add {
		name, addr, ok := strings.Cut(entry, "=")
		if !ok || name == "" || addr == "" {
			return fmt.Errorf("invalid -add value %q, want name=address", entry)
		}
		cfg.Resolvers = append(cfg.Resolvers, config.Resolver{Name: name, Address: addr})
	}

	for _, name := range remove {
		kept := cfg.Resolvers[:0]
		found := false
		for _, r := range cfg.Resolvers {
			if r.Name == name {
				found = true
				continue
			}
			kept = append(kept, r)
		}
		if !found {
			return fmt.Errorf("cannot remove unknown resolver %q", name)
		}
		cfg.Resolvers = kept
	}

	return nil
}

func printResolvers(cfg *config.Config) {
	fmt.Printf("Configured resolvers (%s mode):\n", cfg.Mode)
	for _, r := range cfg.Resolvers {
		fmt.Printf("  %-24s %s\n", r.Name, r.Address)
	}
}
