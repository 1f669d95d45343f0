package app

import (
	"database/sql"

	"github.com/revloop/revloop/internal/config"
	"github.com/revloop/revloop/internal/event_bus"
	"github.com/revloop/revloop/internal/utils"
	"github.com/revloop/revloop/pkg/billing"
	"github.com/revloop/revloop/pkg/billing_config"
	"github.com/revloop/revloop/pkg/carryover"
	"github.com/revloop/revloop/pkg/client"
	"github.com/revloop/revloop/pkg/entry"
	"github.com/revloop/revloop/pkg/project"
	"github.com/revloop/revloop/pkg/report"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	ClientRepo    client.ClientRepo
	ClientHandler *client.ClientHandler

	ProjectRepo    project.ProjectRepo
	ProjectHandler *project.ProjectHandler

	EntryRepo    entry.EntryRepo
	EntryHandler *entry.EntryHandler

	OverrideRepo   billing_config.OverrideRepo
	ConfigResolver billing_config.Resolver
	ConfigHandler  *billing_config.ConfigHandler

	LedgerRepo       carryover.LedgerRepo
	CarryoverService carryover.Service
	LedgerSyncer     *carryover.LedgerSyncer
	LedgerHandler    *carryover.LedgerHandler

	BillingService billing.Service
	BillingHandler *billing.BillingHandler

	Clock utils.Clock

	ReportService     report.Service
	CsvReportRenderer *report.CsvReportRendererImpl
	ReportHandler     *report.ReportHandler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()

	deps.ClientRepo = client.NewClientRepo(db)
	deps.ClientHandler = client.NewClientHandler(deps.ClientRepo)

	deps.ProjectRepo = project.NewProjectRepo(db)
	deps.ProjectHandler = project.NewProjectHandler(deps.ProjectRepo)

	deps.EntryRepo = entry.NewEntryRepo(db)
	deps.EntryHandler = entry.NewEntryHandler(deps.EntryRepo)

	deps.OverrideRepo = billing_config.NewOverrideRepo(db)
	deps.ConfigResolver = billing_config.NewResolver(deps.OverrideRepo)
	deps.ConfigHandler = billing_config.NewConfigHandler(deps.OverrideRepo, deps.ConfigResolver)

	deps.LedgerRepo = carryover.NewLedgerRepo(db)
	deps.CarryoverService = carryover.NewService(deps.LedgerRepo)
	deps.LedgerSyncer = carryover.NewLedgerSyncer(deps.LedgerRepo)
	deps.LedgerSyncer.Subscribe(deps.EventBus)
	deps.LedgerHandler = carryover.NewLedgerHandler(deps.CarryoverService)

	deps.BillingService = billing.NewService(
		deps.EntryRepo,
		deps.ProjectRepo,
		deps.ConfigResolver,
		deps.CarryoverService,
		deps.EventBus,
	)
	deps.Clock = &utils.SystemClock{}
	deps.BillingHandler = billing.NewBillingHandler(deps.BillingService, deps.Clock)

	deps.ReportService = report.NewService(deps.BillingService, cfg.Billing.TrendMaxMonths)
	deps.CsvReportRenderer = report.NewCsvReportRenderer()
	deps.ReportHandler = report.NewReportHandler(deps.ReportService, deps.CsvReportRenderer)

	return deps
}
