package api

import (
	"mime"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/evalrecon/internal/app"
)

// ExportHandler serves report files.
type ExportHandler struct {
	pipeline Pipeline
}

// NewExportHandler creates a new export handler.
func NewExportHandler(p Pipeline) *ExportHandler {
	return &ExportHandler{pipeline: p}
}

// HandleExport handles GET /export/{kind}?department=&format= requests.
// An empty selection answers 204 with no body.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/export/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	kind, err := service.ParseKind(path)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	format, err := service.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeFailure(w, op, err)
		return
	}

	file, err := h.pipeline.Export(r.Context(), kind, r.URL.Query().Get("department"), format)
	if err != nil {
		writeFailure(w, op, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}
