package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"blitzbot/internal/adapter/gameclient"
	httpadapter "blitzbot/internal/adapter/http"
	metricsinmem "blitzbot/internal/adapter/metrics/inmemory"
	gormrepo "blitzbot/internal/adapter/repo/gorm"
	"blitzbot/internal/adapter/repo/memory"
	sqliterepo "blitzbot/internal/adapter/repo/sqlite"
	"blitzbot/internal/adapter/schema"
	"blitzbot/internal/adapter/trace"
	"blitzbot/internal/app/play"
	"blitzbot/internal/app/policy"
	"blitzbot/internal/app/ports"
	"blitzbot/internal/app/replay"
	"blitzbot/internal/app/turn"
	"blitzbot/internal/config"
	"blitzbot/internal/util"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

const usage = "Usage: bot [flags] <key> <[training|competition]> [gameId]"

var errUsage = errors.New(usage)

type options struct {
	configPath string
	dumpTrace  string
	overrides  map[string]string
	key        string
	mode       string
	gameID     string
}

type journal struct {
	runs  ports.RunRepository
	turns ports.TurnRepository
	tx    ports.TxManager
	close func() error
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}
	if opts.dumpTrace != "" {
		if err := dumpTrace(opts.dumpTrace, os.Stdout); err != nil {
			hlog.Fatalf("dump trace: %v", err)
		}
		return
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		hlog.Fatalf("load config: %v", err)
	}
	if err := applyOverrides(&cfg, opts); err != nil {
		hlog.Fatalf("flags: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		hlog.Fatalf("config: %v", err)
	}
	hlog.SetLevel(logLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	j, err := buildJournal(ctx, cfg.Journal)
	if err != nil {
		hlog.Fatalf("journal: %v", err)
	}
	defer func() {
		if err := j.close(); err != nil {
			hlog.Errorf("close journal: %v", err)
		}
	}()

	rng := util.NewRand(cfg.Seed)
	kpi := metricsinmem.NewRecorder()
	turnUC := turn.UseCase{
		Selector: policy.Selector{Tuning: cfg.Tuning, Rand: rng},
		Runs:     j.runs,
		Turns:    j.turns,
		Tx:       j.tx,
		Metrics:  kpi,
		Now:      time.Now,
		Rand:     rng,
	}
	if cfg.ValidateSchema {
		v, err := schema.NewSnapshotValidator()
		if err != nil {
			hlog.Fatalf("compile snapshot schema: %v", err)
		}
		turnUC.Validator = v
	}
	if cfg.Trace.Dir != "" {
		w := trace.NewWriter(cfg.Trace.Dir, cfg.Trace.Prefix)
		defer func() {
			if err := w.Close(); err != nil {
				hlog.Errorf("close trace: %v", err)
			}
		}()
		turnUC.Trace = w
	}

	if cfg.Ops.Addr != "" {
		ops := server.New(server.WithHostPorts(cfg.Ops.Addr))
		httpadapter.Handler{
			DecideUC: turnUC,
			ReplayUC: replay.UseCase{Runs: j.runs, Turns: j.turns},
			KPI:      kpi,
		}.RegisterRoutes(ops)
		go func() {
			if err := ops.Run(); err != nil {
				hlog.Errorf("ops server stopped: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = ops.Shutdown(shutdownCtx)
		}()
		hlog.Infof("ops server listening on %s", cfg.Ops.Addr)
	}

	client, err := gameclient.New(gameclient.Config{
		BaseURL:      cfg.Server.BaseURL,
		StartTimeout: cfg.Server.StartTimeout,
		MoveTimeout:  cfg.Server.MoveTimeout,
	})
	if err != nil {
		hlog.Fatalf("game client: %v", err)
	}
	runner := play.Runner{
		Client:   client,
		Turn:     turnUC,
		Runs:     j.runs,
		MaxTurns: cfg.MaxTurns,
		Now:      time.Now,
	}
	sum, err := runner.Run(ctx, play.StartRequest{Key: cfg.Key, Mode: cfg.Mode, GameID: cfg.GameID, Map: cfg.Map})
	if err != nil && !errors.Is(err, context.Canceled) {
		hlog.Errorf("run failed: %v", err)
	}
	snap := kpi.Snapshot()
	hlog.Infof("summary run=%s turns=%d decisions=%d fallbacks=%d view=%s",
		sum.RunID, sum.Turns, snap.DecisionTotal, snap.FallbackTotal, sum.ViewURL)
}

// parseArgs reads flags followed by the positional key, mode and game id.
// Flags only override the config when given explicitly.
func parseArgs(args []string, out io.Writer) (options, error) {
	fs := flag.NewFlagSet("bot", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintln(out, usage)
		fs.PrintDefaults()
	}

	opts := options{overrides: map[string]string{}}
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&opts.dumpTrace, "dump-trace", "", "print a zstd trace file as JSON lines and exit")
	fs.String("server", "", "game server base URL")
	fs.String("map", "", "training map name")
	fs.String("journal", "", "journal driver: none, memory, sqlite or postgres")
	fs.String("ops-addr", "", "listen address for the ops HTTP server")
	fs.String("log-level", "", "trace, debug, info, warn or error")
	fs.String("seed", "", "random seed, 0 seeds from the clock")
	fs.String("max-turns", "", "stop after this many turns, 0 for no limit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "config", "dump-trace":
		default:
			opts.overrides[f.Name] = f.Value.String()
		}
	})
	if opts.dumpTrace != "" {
		return opts, nil
	}

	rest := fs.Args()
	if len(rest) < 2 || len(rest) > 3 {
		return opts, errUsage
	}
	opts.key, opts.mode = rest[0], rest[1]
	if opts.mode != play.ModeTraining && opts.mode != play.ModeCompetition {
		return opts, errUsage
	}
	if len(rest) == 3 {
		opts.gameID = rest[2]
	}
	return opts, nil
}

func applyOverrides(cfg *config.Config, opts options) error {
	cfg.Key, cfg.Mode = opts.key, opts.mode
	if opts.gameID != "" {
		cfg.GameID = opts.gameID
	}
	for name, v := range opts.overrides {
		switch name {
		case "server":
			cfg.Server.BaseURL = v
		case "map":
			cfg.Map = v
		case "journal":
			cfg.Journal.Driver = v
		case "ops-addr":
			cfg.Ops.Addr = v
		case "log-level":
			cfg.LogLevel = v
		case "seed":
			if _, err := fmt.Sscan(v, &cfg.Seed); err != nil {
				return fmt.Errorf("-seed: %w", err)
			}
		case "max-turns":
			if _, err := fmt.Sscan(v, &cfg.MaxTurns); err != nil {
				return fmt.Errorf("-max-turns: %w", err)
			}
		}
	}
	return nil
}

func logLevel(name string) hlog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return hlog.LevelTrace
	case "debug":
		return hlog.LevelDebug
	case "warn", "warning":
		return hlog.LevelWarn
	case "error":
		return hlog.LevelError
	default:
		return hlog.LevelInfo
	}
}

func buildJournal(ctx context.Context, cfg config.JournalConfig) (journal, error) {
	noop := func() error { return nil }
	switch cfg.Driver {
	case config.JournalNone:
		return journal{close: noop}, nil
	case config.JournalSQLite:
		db, err := sqliterepo.Open(cfg.Path)
		if err != nil {
			return journal{}, err
		}
		return journal{
			runs:  sqliterepo.NewRunRepo(db),
			turns: sqliterepo.NewTurnRepo(db),
			tx:    sqliterepo.NewTxManager(db),
			close: db.Close,
		}, nil
	case config.JournalPostgres:
		db, err := gormrepo.OpenPostgres(cfg.DSN)
		if err != nil {
			return journal{}, err
		}
		if cfg.AutoMigrate {
			if err := gormrepo.ApplyMigrations(ctx, db, gormrepo.Migrations()); err != nil {
				return journal{}, fmt.Errorf("apply migrations: %w", err)
			}
		}
		sqlDB, err := db.DB()
		if err != nil {
			return journal{}, err
		}
		return journal{
			runs:  gormrepo.NewRunRepo(db),
			turns: gormrepo.NewTurnRepo(db),
			tx:    gormrepo.NewTxManager(db),
			close: sqlDB.Close,
		}, nil
	default:
		store := memory.NewStore()
		return journal{
			runs:  memory.NewRunRepo(store),
			turns: memory.NewTurnRepo(store),
			tx:    memory.NewTxManager(store),
			close: noop,
		}, nil
	}
}

func dumpTrace(path string, out io.Writer) error {
	return trace.ReadFile(path, func(line json.RawMessage) error {
		_, err := fmt.Fprintf(out, "%s\n", line)
		return err
	})
}
