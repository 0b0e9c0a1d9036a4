// homekit-mqtt exposes MQTT-controlled devices as HomeKit accessories.
//
// Accessories are described by INI files in a definitions directory. Each
// characteristic can be routed to an inbound and an outbound MQTT topic,
// optionally through a named adapter that translates device payloads.
//
// Usage:
//
//	homekit-mqtt [--cfg DIR] [--config FILE] [--reset]
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/nerrad567/homekit-mqtt/internal/accessory"
	"github.com/nerrad567/homekit-mqtt/internal/adapter"
	"github.com/nerrad567/homekit-mqtt/internal/api"
	"github.com/nerrad567/homekit-mqtt/internal/bridge"
	"github.com/nerrad567/homekit-mqtt/internal/definition"
	"github.com/nerrad567/homekit-mqtt/internal/history"
	"github.com/nerrad567/homekit-mqtt/internal/homekit"
	"github.com/nerrad567/homekit-mqtt/internal/infrastructure/config"
	"github.com/nerrad567/homekit-mqtt/internal/infrastructure/database"
	"github.com/nerrad567/homekit-mqtt/internal/infrastructure/influxdb"
	"github.com/nerrad567/homekit-mqtt/internal/infrastructure/logging"
	"github.com/nerrad567/homekit-mqtt/internal/infrastructure/mqtt"
	"github.com/nerrad567/homekit-mqtt/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the command-line flags.
type options struct {
	// definitions overrides definitions.dir when set.
	definitions string

	// configPath is the optional YAML application config.
	configPath string

	// reset discards pairings and recorded AIDs.
	reset bool

	showVersion bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if opts.showVersion {
		fmt.Printf("homekit-mqtt %s (%s, %s)\n", version, commit, date)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags parses the command line. The HOMEKIT_MQTT_CONFIG environment
// variable supplies the config path when --config is not given.
func parseFlags(args []string) (options, error) {
	var opts options

	flags := pflag.NewFlagSet("homekit-mqtt", pflag.ContinueOnError)
	flags.StringVar(&opts.definitions, "cfg", "", "accessory definitions directory (default etc/homekit-mqtt)")
	flags.StringVar(&opts.configPath, "config", "", "application config file (YAML)")
	flags.BoolVar(&opts.reset, "reset", false, "forget pairings and reassign accessory IDs")
	flags.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	if err := flags.Parse(args); err != nil {
		return options{}, err
	}
	if flags.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", flags.Args())
	}
	if opts.configPath == "" {
		opts.configPath = os.Getenv("HOMEKIT_MQTT_CONFIG")
	}
	return opts, nil
}

// loadConfig builds the effective configuration: defaults, YAML file,
// bridge.cfg broker settings, environment. --cfg beats every source.
//
// Returns:
//   - *config.Config: Validated configuration
//   - *definition.BridgeDefinition: Bridge identity (defaults when bridge.cfg is missing)
//   - error: If any source is unreadable or the result is invalid
func loadConfig(opts options) (*config.Config, *definition.BridgeDefinition, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	applyFlags(cfg, opts)

	def, err := definition.LoadBridgeDefinition(cfg.Definitions.Dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		def = &definition.BridgeDefinition{Name: "MQTT"}
	case err != nil:
		return nil, nil, err
	}

	if def.Broker != nil {
		cfg.MergeBroker(def.Broker.Host, def.Broker.Port, def.Broker.Username, def.Broker.Password)
		config.ApplyEnvOverrides(cfg)
		applyFlags(cfg, opts)
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("validating config: %w", err)
		}
	}
	return cfg, def, nil
}

// applyFlags copies command-line overrides into cfg.
func applyFlags(cfg *config.Config, opts options) {
	if opts.definitions != "" {
		cfg.Definitions.Dir = opts.definitions
	}
}

// run wires the components and blocks until ctx is cancelled.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - opts: Parsed command-line flags
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context, opts options) error {
	log := logging.Default()
	log.Info("starting homekit-mqtt", "version", version, "commit", commit, "build_date", date)

	cfg, def, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"definitions", cfg.Definitions.Dir,
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
	)

	if opts.reset {
		if err := resetState(cfg.StorePath()); err != nil {
			return err
		}
		log.Warn("pairing state removed, accessory IDs will be reassigned", "path", cfg.StorePath())
	}

	hist, err := openHistory(ctx, cfg, opts.reset, log)
	if err != nil {
		return err
	}
	defer hist.close(log)

	client := mqtt.New(cfg.MQTT)
	client.SetLogger(log.With("component", "mqtt"))

	server := homekit.New(homekit.Config{
		Name:      def.Name,
		Info:      def.Info,
		Pin:       cfg.HAP.Pin,
		Address:   cfg.HAP.Address,
		StorePath: cfg.StorePath(),
	}, log.With("component", "homekit"))

	adapters := adapter.Default()
	br, err := bridge.NewBridge(bridge.Options{
		Broker:    client,
		Adapters:  adapters,
		Authority: server,
		QoS:       byte(cfg.MQTT.QoS), //nolint:gosec // validated to 0..2
		LogTopic:  cfg.MQTT.LogTopic,
		Logger:    log.With("component", "bridge"),
	})
	if err != nil {
		return fmt.Errorf("creating bridge: %w", err)
	}

	loader := definition.NewLoader(cfg.Definitions.Dir, log.With("component", "definitions"))
	accs, err := loader.Load(opts.reset)
	if err != nil {
		return fmt.Errorf("loading definitions: %w", err)
	}

	hist.restore(ctx, accs, log)
	registered := register(br, hist.recorder, accs, log)

	if err := loader.Stabilize(); err != nil {
		log.Warn("some accessory IDs could not be saved", "error", err)
	}

	if err := hist.start(ctx); err != nil {
		return err
	}

	if err := br.Connect(ctx); err != nil {
		client.Close() //nolint:errcheck // Close never fails
		return fmt.Errorf("connecting bridge: %w", err)
	}
	if err := br.Start(ctx); err != nil {
		stopBridge(br, log)
		return fmt.Errorf("starting bridge: %w", err)
	}

	status, err := startAPI(ctx, cfg, apiDeps(br, client, adapters, hist), log)
	if err != nil {
		stopBridge(br, log)
		return err
	}
	if status != nil {
		defer status.Close() //nolint:errcheck // Best-effort shutdown
	}

	log.Info("bridge running, waiting for shutdown signal",
		"accessories", registered,
		"topics", len(br.Topics()),
		"pin", cfg.HAP.Pin,
	)

	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	stopBridge(br, log)
	stats := br.Stats()
	log.Info("bridge stopped",
		"dispatched", stats.Dispatched,
		"unmatched", stats.Unmatched,
		"published", stats.Published,
		"dropped", stats.Dropped,
		"failures", stats.Failures,
	)
	return nil
}

// register adds every accessory to the bridge and starts recording it.
// Accessories that fail are logged and skipped.
func register(br *bridge.Bridge, rec *history.Recorder, accs []*accessory.Accessory, log *logging.Logger) int {
	n := 0
	for _, acc := range accs {
		if err := br.RegisterAccessory(acc); err != nil {
			log.Warn("skipping accessory", "accessory", acc.Name, "error", err)
			continue
		}
		if rec != nil {
			rec.Track(acc)
		}
		n++
	}
	return n
}

// apiDeps collects the components the status API reports on. Disabled
// history components stay nil interfaces.
func apiDeps(br *bridge.Bridge, client *mqtt.Client, adapters *adapter.Registry, h *historyStack) api.Deps {
	deps := api.Deps{
		Bridge:   br,
		Broker:   client,
		Adapters: adapters,
		History:  h.repo,
		Version:  version,
	}
	if h.db != nil {
		deps.Database = h.db
	}
	if h.influx != nil {
		deps.InfluxDB = h.influx
	}
	if h.recorder != nil {
		deps.Recorder = h.recorder
	}
	return deps
}

// startAPI starts the status API when enabled. It returns nil when disabled.
func startAPI(ctx context.Context, cfg *config.Config, deps api.Deps, log *logging.Logger) (*api.Server, error) {
	if !cfg.API.Enabled {
		return nil, nil
	}

	deps.Config = cfg.API
	deps.Logger = log.With("component", "api")
	server, err := api.New(deps)
	if err != nil {
		return nil, fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return nil, fmt.Errorf("starting API server: %w", err)
	}
	return server, nil
}

func stopBridge(br *bridge.Bridge, log *logging.Logger) {
	if err := br.Stop(); err != nil {
		log.Error("error stopping bridge", "error", err)
	}
}

// resetState removes the HAP store so the bridge pairs as a new device.
func resetState(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing pairing state: %w", err)
	}
	return nil
}

// historyStack holds the optional persistence components. Every method is
// a no-op for the parts that are disabled.
type historyStack struct {
	db       *database.DB
	repo     history.Repository
	recorder *history.Recorder
	influx   *influxdb.Client
}

// openHistory opens the database and InfluxDB when enabled. An unreachable
// InfluxDB is logged and skipped; a database failure is fatal. With reset,
// the recorded values are dropped because they are keyed by accessory IDs
// that are about to be reassigned.
func openHistory(ctx context.Context, cfg *config.Config, reset bool, log *logging.Logger) (*historyStack, error) {
	h := &historyStack{}

	if cfg.InfluxDB.Enabled {
		client, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			log.Warn("InfluxDB unavailable, telemetry disabled", "error", err)
		} else {
			client.SetOnError(func(err error) {
				log.Warn("InfluxDB write failed", "error", err)
			})
			h.influx = client
			log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
		}
	}

	if !cfg.Database.Enabled {
		return h, nil
	}

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		h.close(log)
		return nil, fmt.Errorf("opening database: %w", err)
	}
	h.db = db

	if reset {
		if err := clearHistory(ctx, db); err != nil {
			h.close(log)
			return nil, err
		}
		log.Warn("recorded values removed", "path", cfg.Database.Path)
	}

	if err := db.Migrate(ctx, migrations.FS); err != nil {
		h.close(log)
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	h.repo = history.NewSQLiteRepository(db.DB)
	opts := history.RecorderOptions{
		Repository: h.repo,
		Logger:     log.With("component", "history"),
		Retention:  cfg.GetRetention(),
	}
	if h.influx != nil {
		opts.Sink = h.influx
	}
	h.recorder = history.NewRecorder(opts)
	return h, nil
}

// clearHistory rolls back every applied migration. Migrate recreates the
// empty schema afterwards.
func clearHistory(ctx context.Context, db *database.DB) error {
	for {
		applied, _, err := db.MigrationStatus(ctx, migrations.FS)
		if err != nil {
			return fmt.Errorf("reading migration status: %w", err)
		}
		if len(applied) == 0 {
			return nil
		}
		if err := db.MigrateDown(ctx, migrations.FS); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
	}
}

func (h *historyStack) restore(ctx context.Context, accs []*accessory.Accessory, log *logging.Logger) {
	if h.repo == nil {
		return
	}
	n, err := history.Restore(ctx, h.repo, accs, log)
	if err != nil {
		log.Warn("restoring values failed", "error", err)
		return
	}
	log.Info("restored last known values", "characteristics", n)
}

func (h *historyStack) start(ctx context.Context) error {
	if h.recorder == nil {
		return nil
	}
	if err := h.recorder.Start(ctx); err != nil {
		return fmt.Errorf("starting history recorder: %w", err)
	}
	return nil
}

func (h *historyStack) close(log *logging.Logger) {
	if h.recorder != nil {
		h.recorder.Stop()
	}
	if h.influx != nil {
		h.influx.Close() //nolint:errcheck // Close never fails
	}
	if h.db != nil {
		if err := h.db.Close(); err != nil {
			log.Error("error closing database", "error", err)
		}
	}
}
