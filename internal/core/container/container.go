package container

import (
	"database/sql"
	"fmt"
	"time"

	auditLogRepo "leltar/internal/auditlog"
	"leltar/internal/catalog"
	"leltar/internal/core/config"
	"leltar/internal/ingest"
	"leltar/internal/metrics"
	"leltar/internal/middleware"
	"leltar/internal/rate_limiter"
	"leltar/internal/reconcile"
	"leltar/internal/report"
	"leltar/internal/repository"
	"leltar/internal/snapshots"
	"leltar/internal/transfers"
	"leltar/pkg/auditlog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const Version = "1.4.0"

type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	DB         *sql.DB
	Repository *repository.Repository
	Metrics    *metrics.Recorder
	AuditLog   *auditlog.Auditlog

	Catalog   *catalog.State
	Store     *snapshots.Store
	Grid      *snapshots.GridService
	Ingest    *ingest.Service
	Transfers *transfers.TransferService
	Auditor   *reconcile.Auditor
	Reports   *report.Service

	Health           *middleware.Health
	UploadLimiter    *rate_limiter.RateLimiter
	ProductHandler   *catalog.ProductHandler
	StockHandler     *snapshots.StockHandler
	UploadHandler    *ingest.UploadHandler
	TransferHandler  *transfers.TransferHandler
	ReconcileHandler *reconcile.Handler
	ReportHandler    *report.Handler
	HistoryHandler   *auditLogRepo.HistoryHandler
}

func NewAppContainer(db *sql.DB, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	layout, err := ingest.ParseColumnLayout(cfg.PerWarehouseLayout)
	if err != nil {
		return nil, fmt.Errorf("PER_WAREHOUSE_LAYOUT: %w", err)
	}

	// Quantities are rendered as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(registry)

	repo := repository.NewRepository(db)
	auditLogRepository := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditLogRepository, logger)

	productRepo := catalog.NewRepository(repo)
	state := catalog.NewState(productRepo)
	resolver := catalog.NewResolver(productRepo, state, logger, recorder)

	store := snapshots.NewStore(snapshots.NewRepository(repo), logger, cfg.SnapshotPageSize)
	grid := snapshots.NewGridService(store, state)

	ingestService := ingest.NewService(resolver, store, layout, auditLog, recorder, logger, cfg.TransferActor)

	transferRepo := transfers.NewRepository(repo)
	transferService := transfers.NewService(transferRepo, store, auditLog, recorder, logger, cfg.TransferActor)

	auditor := reconcile.NewAuditor(store, transferRepo, logger)
	reports := report.NewService(grid, transferService)

	return &Container{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		Repository: repo,
		Metrics:    recorder,
		AuditLog:   auditLog,

		Catalog:   state,
		Store:     store,
		Grid:      grid,
		Ingest:    ingestService,
		Transfers: transferService,
		Auditor:   auditor,
		Reports:   reports,

		Health:           middleware.NewHealth(db, Version),
		UploadLimiter:    rate_limiter.NewRateLimiter(cfg.UploadRateLimit, time.Minute),
		ProductHandler:   catalog.NewProductHandler(state, logger),
		StockHandler:     snapshots.NewStockHandler(store, grid, auditLog, cfg.TransferActor, logger),
		UploadHandler:    ingest.NewUploadHandler(ingestService, logger),
		TransferHandler:  transfers.NewHandler(transferService, logger),
		ReconcileHandler: reconcile.NewHandler(auditor, logger),
		ReportHandler:    report.NewHandler(reports, logger),
		HistoryHandler:   auditLogRepo.NewHistoryHandler(auditLogRepository, logger),
	}, nil
}
