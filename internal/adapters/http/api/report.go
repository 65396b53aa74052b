package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	service "github.com/okian/evalrecon/internal/app"
	"github.com/okian/evalrecon/internal/domain/model"
)

// ReportHandler serves read views of a fresh pipeline run.
type ReportHandler struct {
	pipeline Pipeline
}

// NewReportHandler creates a new report handler.
func NewReportHandler(p Pipeline) *ReportHandler {
	return &ReportHandler{pipeline: p}
}

type rejectedCounts struct {
	Attendees int `json:"attendees"`
	Responses int `json:"responses"`
}

type summaryResponse struct {
	RunID       string                    `json:"run_id"`
	Source      string                    `json:"source"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Departments []model.DepartmentSummary `json:"departments"`
	Total       model.DepartmentSummary   `json:"total"`
	Rejected    rejectedCounts            `json:"rejected"`
	Duplicates  int                       `json:"duplicates"`
	Orphans     int                       `json:"orphans"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func list[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Count: len(items)}
}

// run executes the pipeline for a GET request and writes failures itself.
func (h *ReportHandler) run(w http.ResponseWriter, r *http.Request, op string) (*service.Report, bool) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return nil, false
	}
	report, err := h.pipeline.Run(r.Context())
	if err != nil {
		writeFailure(w, op, err)
		return nil, false
	}
	return report, true
}

// HandleSummary handles GET /summary?department= requests.
func (h *ReportHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.summary"
	report, ok := h.run(w, r, op)
	if !ok {
		return
	}
	departments := report.Summaries(r.URL.Query().Get("department"))
	if departments == nil {
		departments = []model.DepartmentSummary{}
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		RunID:       report.RunID,
		Source:      report.Source,
		GeneratedAt: report.GeneratedAt,
		Departments: departments,
		Total:       report.Total,
		Rejected: rejectedCounts{
			Attendees: report.RejectedAttendees,
			Responses: report.RejectedResponses,
		},
		Duplicates: len(report.Duplicates),
		Orphans:    len(report.Orphans),
	})
}

// HandleRecords handles GET /records?department=&status= requests.
func (h *ReportHandler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	const op = "api.records"
	status := model.Status(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))))
	if status != "" && !status.Valid() {
		writeError(w, http.StatusBadRequest, "bad_request",
			WrapKind(op, ErrBadRequest, fmt.Errorf("status must be %q or %q", model.StatusDone, model.StatusPending)))
		return
	}
	report, ok := h.run(w, r, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, list(report.Filter(r.URL.Query().Get("department"), status)))
}

// HandleDuplicates handles GET /duplicates?department= requests.
func (h *ReportHandler) HandleDuplicates(w http.ResponseWriter, r *http.Request) {
	report, ok := h.run(w, r, "api.duplicates")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, list(report.DuplicatesIn(r.URL.Query().Get("department"))))
}

// HandleOrphans handles GET /orphans requests.
func (h *ReportHandler) HandleOrphans(w http.ResponseWriter, r *http.Request) {
	report, ok := h.run(w, r, "api.orphans")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, list(report.Orphans))
}
