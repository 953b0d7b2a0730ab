package container

import (
	"context"
	"fmt"

	"godge/adapters/csvtable"
	"godge/adapters/postgres"
	"godge/adapters/rng"
	"godge/adapters/stats/dge"
	"godge/app"
	"godge/internal"
	"godge/internal/config"
	"godge/internal/migration"
	"godge/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Ports
	TableSource ports.TableSource
	ResultStore ports.ResultStore
	RNG         ports.RNGPort

	// Statistics
	CIRunner  *dge.CITestRunner
	ZRunner   *dge.ZTestRunner
	Resampler *dge.ResampledMeanEstimator

	// Services
	Analysis *app.AnalysisService
}

// New creates a container with CSV result storage.
// Call InitWithDatabase afterwards to switch results to PostgreSQL.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(cfg.LogLevel)
	c := &Container{
		Config:      cfg,
		Logger:      logger,
		TableSource: csvtable.NewReader(),
		ResultStore: csvtable.NewStore(cfg.Storage.ResultsDir),
		RNG:         rng.NewAdapter(),
	}

	c.CIRunner = dge.NewCITestRunner(logger)
	c.ZRunner = dge.NewZTestRunner(cfg.Analysis.Variance, logger)
	c.Resampler = dge.NewResampledMeanEstimator(c.RNG, logger)
	c.initAnalysis()

	return c, nil
}

// Open builds a container and, when DATABASE_URL is set, connects to PostgreSQL
// and runs schema migrations before routing results there
func Open(ctx context.Context, cfg *config.Config) (*Container, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.Storage.UsePostgres() {
		return c, nil
	}

	db, err := postgres.Connect(ctx, cfg.Storage.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := migration.NewRunner(c.Logger).Run(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if err := c.InitWithDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// InitWithDatabase routes result persistence to PostgreSQL
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db
	c.ResultStore = postgres.NewResultRepository(db)
	c.initAnalysis()

	c.Logger.Info("results will be stored in PostgreSQL")
	return nil
}

func (c *Container) initAnalysis() {
	c.Analysis = app.NewAnalysisService(c.CIRunner, c.ZRunner, c.Resampler, c.TableSource, c.ResultStore, c.Logger)
}

// AnalysisOptions returns the configured defaults for a run with the given method
func (c *Container) AnalysisOptions(method string) app.AnalysisOptions {
	return app.AnalysisOptions{
		Method: method,
		Seed:   c.Config.Analysis.Seed,
		Align:  c.Config.Analysis.Align,
	}
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	// Close database connection
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
