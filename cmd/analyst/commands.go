package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/wager-analyst/internal/database"
	"github.com/yourusername/wager-analyst/internal/datasource"
	"github.com/yourusername/wager-analyst/internal/health"
	"github.com/yourusername/wager-analyst/internal/ingest"
	"github.com/yourusername/wager-analyst/internal/metrics"
	"github.com/yourusername/wager-analyst/internal/models"
	"github.com/yourusername/wager-analyst/internal/query"
	"github.com/yourusername/wager-analyst/internal/scheduler"
	"github.com/yourusername/wager-analyst/internal/service"
)

var (
	betType       string
	rankLimit     int
	patternLimit  int
	patternFamily string
	filterFlags   []string
	importBatch   int
	scheduleFlag  string
	importSpec    string
)

func init() {
	rankCmd.Flags().StringVar(&betType, "bet-type", "", "Rank on one bet type instead of overall")
	rankCmd.Flags().IntVarP(&rankLimit, "limit", "n", 0, "Show at most this many rows")
	riskCmd.Flags().StringVar(&betType, "bet-type", "", "Assess one bet type (substring match) instead of the best one")
	patternsCmd.Flags().StringVar(&patternFamily, "family", "", "Only show one family: success, failure, team, league or betslip")
	patternsCmd.Flags().IntVarP(&patternLimit, "limit", "n", 20, "Show at most this many patterns per family")
	queryCmd.Flags().StringArrayVarP(&filterFlags, "filter", "f", nil,
		"FIELD=VALUE[@METRIC:OPERATOR:VALUE]; repeat to AND filters")
	importCmd.Flags().IntVar(&importBatch, "batch-size", 500, "Records per COPY batch")
	serveCmd.Flags().StringVar(&scheduleFlag, "schedule", "", "Override the snapshot cron schedule")
	serveCmd.Flags().StringVar(&importSpec, "import-schedule", "", "Also refresh the database from --file on this cron schedule")

	snapshotCmd.AddCommand(snapshotGenerateCmd, snapshotShowCmd, snapshotListCmd)
	dbCmd.AddCommand(dbInitCmd, dbSchemaCmd)
}

func withApp(cmd *cobra.Command, opts appOptions, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank teams by composite score",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
			ranked, err := a.analysis.Rank(ctx, betType)
			if err != nil {
				return err
			}
			if rankLimit > 0 && rankLimit < len(ranked) {
				ranked = ranked[:rankLimit]
			}
			return render(cmd.OutOrStdout(), ranked, func(p *printer) { p.rankings(ranked) })
		})
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Attach confidence and risk tiers to the top ranked teams",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
			ranked, err := a.analysis.Rank(ctx, "")
			if err != nil {
				return err
			}
			recs, err := a.analysis.Recommend(ctx, ranked)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), recs, func(p *printer) { p.recommendations(recs) })
		})
	},
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Mine success, failure, team, league and betslip patterns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		families, err := selectFamilies(patternFamily)
		if err != nil {
			return err
		}
		return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
			report, err := a.analysis.Patterns(ctx)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), report, func(p *printer) {
				for _, family := range families {
					p.patterns(family, family.of(report), patternLimit)
				}
			})
		})
	},
}

var riskCmd = &cobra.Command{
	Use:   "risk TEAM",
	Short: "Assess the confidence interval, significance and simulated risk of a team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
			assessments, err := a.analysis.AssessTeam(ctx, args[0], betType)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), assessments, func(p *printer) { p.assessments(assessments) })
		})
	},
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Filter records and team aggregates",
	Example: `  analyst query -f country=england -f bet_type=over
  analyst query -f league=premier@win_rate:greaterThan:60`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := parseQuery(filterFlags)
		if err != nil {
			return err
		}
		return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
			matches, err := a.analysis.RunQuery(ctx, q)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), matches, func(p *printer) { p.matches(matches) })
		})
	},
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the query fields, metrics and operators",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogue := struct {
			Fields    []query.Field    `json:"fields"`
			Metrics   []query.Metric   `json:"metrics"`
			Operators []query.Operator `json:"operators"`
		}{query.Fields(), query.Metrics(), operatorNames()}
		return render(cmd.OutOrStdout(), catalogue, func(p *printer) {
			p.catalogue(catalogue.Fields, catalogue.Metrics, catalogue.Operators)
		})
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Generate and read daily prediction snapshots",
}

var snapshotGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate today's snapshot and store it, replacing any earlier one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, appOptions{withStore: true}, func(ctx context.Context, a *app) error {
			snapshot, err := a.analysis.GenerateSnapshot(ctx)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), snapshot, func(p *printer) { p.snapshot(snapshot, false) })
		})
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show [DATE]",
	Short: "Show the snapshot for DATE (YYYY-MM-DD), generating today's when absent",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, appOptions{withStore: true}, func(ctx context.Context, a *app) error {
			if len(args) == 0 || args[0] == a.analysis.Today() {
				snapshot, cached, err := a.analysis.GetOrGenerate(ctx)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), snapshot, func(p *printer) { p.snapshot(snapshot, cached) })
			}

			snapshot, found, err := a.store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: no snapshot stored for %s", models.ErrNotFound, args[0])
			}
			return render(cmd.OutOrStdout(), snapshot, func(p *printer) { p.snapshot(snapshot, true) })
		})
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent stored snapshot dates (postgres backend)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Snapshot.Backend != "postgres" {
			return fmt.Errorf("snapshot list needs the postgres backend, configured: %s", cfg.Snapshot.Backend)
		}
		return withApp(cmd, appOptions{withStore: true}, func(ctx context.Context, a *app) error {
			dates, err := a.repos.Snapshot.ListDates(ctx, 30)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), dates, func(p *printer) { p.lines(dates) })
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import [PATH]",
	Short: "Copy records from an export (or the configured source) into PostgreSQL",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			cfg.Source.Type = string(datasource.FileSourceType)
			cfg.Source.Path = args[0]
			cfg.Source.Format = ""
		}
		if cfg.Source.Type == string(datasource.PostgresSourceType) {
			return fmt.Errorf("import needs a file or http source; pass PATH or --file")
		}

		return withApp(cmd, appOptions{requireDatabase: true}, func(ctx context.Context, a *app) error {
			m, err := service.NewIngestionService(a.source, a.repos.BetRecord, log, importBatch).Import(ctx)
			if err != nil {
				return err
			}
			total, err := a.repos.BetRecord.Count(ctx)
			if err != nil {
				return err
			}
			summary := importSummary{Metrics: m.Snapshot(), StoredTotal: total}
			return render(cmd.OutOrStdout(), summary, func(p *printer) { p.importSummary(summary) })
		})
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the PostgreSQL schema",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the record and snapshot tables when missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Initialize(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		log.WithField("database", cfg.Database.Name).Info("Schema applied")
		return nil
	},
}

var dbSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the schema DDL",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), database.Schema())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve probes, metrics and today's snapshot; regenerate it on schedule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withApp(cmd, appOptions{withStore: true, requireDatabase: importSpec != ""}, func(_ context.Context, a *app) error {
			return serve(ctx, a)
		})
	},
}

func serve(ctx context.Context, a *app) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	sched := scheduler.NewScheduler(loc, log)
	spec := cfg.Snapshot.Schedule
	if scheduleFlag != "" {
		spec = scheduleFlag
	}
	if _, err := sched.ScheduleDailySnapshot(spec, a.analysis); err != nil {
		return err
	}
	if importSpec != "" {
		if sourceFile == "" {
			return fmt.Errorf("--import-schedule requires --file")
		}
		src := datasource.NewFileRecordSource(sourceFile, "", ingest.NewNormalizer(loc), log)
		if _, err := sched.ScheduleImport(importSpec, service.NewIngestionService(src, a.repos.BetRecord, log, importBatch)); err != nil {
			return err
		}
	}

	serverCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        cfg.Metrics.Port,
		Logger:      log,
		Checks:      a.checks,
		Snapshots:   a.analysis,
		MetricsPath: cfg.Metrics.Path,
	}
	if cfg.Metrics.Enabled {
		serverCfg.MetricsHandler = metrics.Handler()
	}
	server := health.NewServer(serverCfg)

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			log.WithError(err).Warn("Scheduler did not stop cleanly")
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})
	g.Go(func() error {
		warmCtx, cancel := context.WithTimeout(gctx, 10*time.Minute)
		defer cancel()
		if _, _, err := a.analysis.GetOrGenerate(warmCtx); err != nil {
			log.WithError(err).Warn("Initial snapshot failed; serving without one")
		}
		server.SetReady(true)
		log.WithField("next_run", sched.NextRun()).Info("Ready")
		return nil
	})
	return g.Wait()
}
