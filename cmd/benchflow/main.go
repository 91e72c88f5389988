// BenchFlow Core - Continuous-Flow Protocol Compiler
//
// This is the main entry point for the BenchFlow core application. It
// loads a protocol definition, validates it against the declared
// apparatus, compiles it into per-device timelines, and delivers the
// result: JSON on stdout, a snapshot in SQLite, and optionally the
// compiled timelines over MQTT and InfluxDB for downstream executors
// and dashboards.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/benchflow/benchflow-core/migrations"

	"github.com/benchflow/benchflow-core/internal/component"
	"github.com/benchflow/benchflow-core/internal/infrastructure/config"
	"github.com/benchflow/benchflow-core/internal/infrastructure/database"
	"github.com/benchflow/benchflow-core/internal/infrastructure/influxdb"
	"github.com/benchflow/benchflow-core/internal/infrastructure/logging"
	"github.com/benchflow/benchflow-core/internal/infrastructure/mqtt"
	"github.com/benchflow/benchflow-core/internal/protocol"
	"github.com/benchflow/benchflow-core/internal/protofile"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	execute := flag.Bool("execute", false,
		"compile for hardware execution (requires component addresses)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <protocol.yaml>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(ctx, flag.Arg(0), *execute); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - protocolPath: Path to the YAML protocol definition
//   - execute: Compile in execute mode instead of simulate
//
// Returns:
//   - error: nil on success, or error describing failure
func run(ctx context.Context, protocolPath string, execute bool) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting BenchFlow Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	mode := component.ModeSimulate
	if execute {
		if cfg.Compiler.SimulateOnly {
			return errors.New("execute mode requested but compiler.simulate_only is set")
		}
		mode = component.ModeExecute
	}

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	// Load and build the protocol
	_, proto, err := protofile.Load(protocolPath)
	if err != nil {
		return fmt.Errorf("loading protocol: %w", err)
	}
	log.Info("protocol loaded",
		"name", proto.Name(),
		"apparatus", proto.Apparatus().Name(),
		"records", proto.Len(),
	)

	// Compile the execution timeline
	result, err := proto.Compile(protocol.CompileOptions{
		Mode: mode,
		Form: protocol.FormExecution,
	})
	if err != nil {
		return fmt.Errorf("compiling protocol: %w", err)
	}

	for _, adv := range result.Advisories {
		log.Warn("compile advisory",
			"code", string(adv.Code),
			"component", adv.Component,
			"detail", adv.Message,
		)
	}
	if cfg.Compiler.AdvisoriesAsErrors && len(result.Advisories) > 0 {
		return fmt.Errorf("compilation produced %d advisories and compiler.advisories_as_errors is set",
			len(result.Advisories))
	}
	log.Info("protocol compiled",
		"components", len(result.Timelines),
		"advisories", len(result.Advisories),
		"mode", string(mode),
	)

	// Persist a snapshot
	repo := protocol.NewSQLiteRepository(db.DB)
	snapshot := proto.Snapshot()
	if err := repo.Create(ctx, snapshot); err != nil {
		if errors.Is(err, protocol.ErrProtocolExists) {
			log.Warn("protocol already stored, skipping save", "name", proto.Name())
		} else {
			return fmt.Errorf("saving protocol: %w", err)
		}
	} else {
		log.Info("protocol saved", "id", snapshot.ID.String())
	}

	// Emit the compiled result on stdout
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(output))

	if cfg.MQTT.Enabled {
		if err := publishResult(cfg, log, proto.Name(), result); err != nil {
			return err
		}
	}

	if cfg.InfluxDB.Enabled {
		if err := recordResult(proto, mode, cfg, log); err != nil {
			return err
		}
	}

	return nil
}

// publishResult delivers the compiled timelines and advisories to the
// MQTT broker as retained messages, so executors and dashboards that
// subscribe later still receive the latest compilation.
func publishResult(cfg *config.Config, log *logging.Logger, name string, result *protocol.CompileResult) error {
	client, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	client.SetLogger(log)

	topics := mqtt.Topics{}

	timelines, err := json.Marshal(result.Timelines)
	if err != nil {
		return fmt.Errorf("encoding timelines: %w", err)
	}
	if err := client.PublishRetained(topics.ProtocolTimeline(name), timelines); err != nil {
		return fmt.Errorf("publishing timeline: %w", err)
	}

	advisories, err := json.Marshal(result.Advisories)
	if err != nil {
		return fmt.Errorf("encoding advisories: %w", err)
	}
	if err := client.PublishRetained(topics.ProtocolAdvisories(name), advisories); err != nil {
		return fmt.Errorf("publishing advisories: %w", err)
	}

	log.Info("compiled output published",
		"timeline_topic", topics.ProtocolTimeline(name),
		"advisories_topic", topics.ProtocolAdvisories(name),
	)
	return nil
}

// recordResult writes the inspection-form timeline to InfluxDB so
// dashboards can plot the planned run.
func recordResult(proto *protocol.Protocol, mode component.RunMode, cfg *config.Config, log *logging.Logger) error {
	inspection, err := proto.Compile(protocol.CompileOptions{
		Mode: mode,
		Form: protocol.FormInspection,
	})
	if err != nil {
		return fmt.Errorf("compiling inspection form: %w", err)
	}

	client, err := influxdb.Connect(cfg.InfluxDB)
	if err != nil {
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Error("error closing InfluxDB", "error", closeErr)
		}
	}()
	client.SetOnError(func(err error) {
		log.Error("InfluxDB write error", "error", err)
	})

	points := 0
	for componentName, windows := range inspection.Windows {
		for _, w := range windows {
			client.WriteTimelineWindow(proto.Name(), componentName, w.Start, w.Stop, w.Params)
			points++
		}
	}
	client.WriteAdvisoryCount(proto.Name(), len(inspection.Advisories))
	client.Flush()

	log.Info("timeline recorded", "points", points, "bucket", cfg.InfluxDB.Bucket)
	return nil
}

// getConfigPath returns the configuration file path.
// Uses BENCHFLOW_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("BENCHFLOW_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
