// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/evalrecon/internal/adapters/export"
	"github.com/okian/evalrecon/internal/adapters/source"
	service "github.com/okian/evalrecon/internal/app"
)

// Pipeline is what the handlers need from the reconciliation service.
// Every call re-runs the pipeline against the source.
type Pipeline interface {
	Run(ctx context.Context) (*service.Report, error)
	Export(ctx context.Context, kind service.Kind, department string, format service.Format) (*service.File, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	reportHandler *ReportHandler
	exportHandler *ExportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(p Pipeline) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		reportHandler: NewReportHandler(p),
		exportHandler: NewExportHandler(p),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("/summary", MetricsMiddleware(s.reportHandler.HandleSummary, "summary"))
	mux.HandleFunc("/records", MetricsMiddleware(s.reportHandler.HandleRecords, "records"))
	mux.HandleFunc("/duplicates", MetricsMiddleware(s.reportHandler.HandleDuplicates, "duplicates"))
	mux.HandleFunc("/orphans", MetricsMiddleware(s.reportHandler.HandleOrphans, "orphans"))
	mux.HandleFunc("/export/", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps pipeline errors onto HTTP statuses.
func writeFailure(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, source.ErrTransport), errors.Is(err, source.ErrPayload):
		writeError(w, http.StatusBadGateway, "upstream_error", WrapKind(op, ErrUpstream, err))
	case errors.Is(err, service.ErrUnknownKind):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, service.ErrUnknownFormat), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	case errors.Is(err, export.ErrNothingToExport):
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
