package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Clients
	r.HandleFunc("/api/client", deps.ClientHandler.GetClients).Methods("GET")
	r.HandleFunc("/api/client", deps.ClientHandler.CreateClient).Methods("POST")

	// Projects
	r.HandleFunc("/api/project", deps.ProjectHandler.GetProjects).Methods("GET")
	r.HandleFunc("/api/project", deps.ProjectHandler.CreateProject).Methods("POST")
	r.HandleFunc("/api/project/{projectId}", deps.ProjectHandler.GetProject).Methods("GET")
	r.HandleFunc("/api/project/{projectId}", deps.ProjectHandler.UpdateProject).Methods("PUT")
	r.HandleFunc("/api/project/{projectId}", deps.ProjectHandler.DeleteProject).Methods("DELETE")

	// Billing configuration
	r.HandleFunc("/api/project/{projectId}/config", deps.ConfigHandler.GetEffectiveConfig).Queries("month", "{month}").Methods("GET")
	r.HandleFunc("/api/project/{projectId}/config/override", deps.ConfigHandler.GetOverrides).Methods("GET")
	r.HandleFunc("/api/project/{projectId}/config/override", deps.ConfigHandler.CreateOverride).Methods("POST")
	r.HandleFunc("/api/project/{projectId}/config/override/{overrideId}", deps.ConfigHandler.UpdateOverride).Methods("PUT")
	r.HandleFunc("/api/project/{projectId}/config/override/{overrideId}", deps.ConfigHandler.DeleteOverride).Methods("DELETE")

	// Carryover ledger
	r.HandleFunc("/api/project/{projectId}/carryover", deps.LedgerHandler.GetLedger).Methods("GET")

	// Timesheet ingestion
	r.HandleFunc("/api/entry", deps.EntryHandler.IngestEntries).Methods("POST")

	// Billing
	r.HandleFunc("/api/billing/monthly", deps.BillingHandler.GetMonthlyBilling).Methods("GET")

	// Reports
	r.HandleFunc("/api/report/monthly", deps.ReportHandler.GetMonthlyReport).Queries("month", "{month}").Methods("GET")
	r.HandleFunc("/api/report/trend", deps.ReportHandler.GetTrend).Queries("from", "{from}", "to", "{to}").Methods("GET")
}
