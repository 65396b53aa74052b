package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/evalrecon/internal/adapters/export"
	"github.com/okian/evalrecon/internal/domain/aggregate"
	"github.com/okian/evalrecon/internal/domain/dedupe"
	"github.com/okian/evalrecon/internal/domain/model"
	"github.com/okian/evalrecon/internal/domain/reconcile"
)

// Kind names an exportable report.
type Kind string

const (
	KindSummary    Kind = "summary"
	KindAttendance Kind = "attendance"
	KindPending    Kind = "pending"
	KindDuplicates Kind = "duplicates"
	KindOrphans    Kind = "orphans"
)

// Kinds lists every report kind.
var Kinds = []Kind{KindSummary, KindAttendance, KindPending, KindDuplicates, KindOrphans}

// ParseKind resolves a report kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat resolves a format name; empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Report is the output of one pipeline run.
type Report struct {
	RunID       string                    `json:"run_id"`
	Source      string                    `json:"source"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Attendees   []model.Attendee          `json:"-"`
	Records     []model.ReconciledRecord  `json:"-"`
	Departments []model.DepartmentSummary `json:"departments"`
	Total       model.DepartmentSummary   `json:"total"`
	Duplicates  []model.Attendee          `json:"-"`
	Orphans     []model.Response          `json:"-"`

	RejectedAttendees int `json:"rejected_attendees"`
	RejectedResponses int `json:"rejected_responses"`
}

// Build runs the reconciliation core over a dataset: deduplicate
// attendees, join with responses, aggregate by department.
func Build(ds model.Dataset) *Report {
	attendees, dups := dedupe.Split(ds.Attendees, model.Attendee.Key)
	joined := reconcile.Join(attendees, ds.Responses)
	departments := aggregate.ByDepartment(joined.Records)

	return &Report{
		Attendees:         attendees,
		Records:           joined.Records,
		Departments:       departments,
		Total:             aggregate.Totals(departments),
		Duplicates:        dups,
		Orphans:           joined.Orphans,
		RejectedAttendees: ds.RejectedAttendees,
		RejectedResponses: ds.RejectedResponses,
	}
}

// AllDepartments reports whether a department filter selects everything.
func AllDepartments(department string) bool {
	d := strings.TrimSpace(department)
	return d == "" || strings.EqualFold(d, aggregate.AllDepartments)
}

// Filter returns reconciled records of one department (exact match) and,
// when status is non-empty, of that status.
func (r *Report) Filter(department string, status model.Status) []model.ReconciledRecord {
	out := make([]model.ReconciledRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		if !AllDepartments(department) && rec.Department != strings.TrimSpace(department) {
			continue
		}
		if status != "" && rec.Status != status {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Summaries returns the department rows matching the filter.
func (r *Report) Summaries(department string) []model.DepartmentSummary {
	if AllDepartments(department) {
		return r.Departments
	}
	var out []model.DepartmentSummary
	for _, s := range r.Departments {
		if s.Department == strings.TrimSpace(department) {
			out = append(out, s)
		}
	}
	return out
}

// DuplicatesIn returns colliding attendee entries of a department.
func (r *Report) DuplicatesIn(department string) []model.Attendee {
	if AllDepartments(department) {
		return r.Duplicates
	}
	var out []model.Attendee
	for _, a := range r.Duplicates {
		if a.Department == strings.TrimSpace(department) {
			out = append(out, a)
		}
	}
	return out
}

// Rows lays out a report kind as export records. Orphans ignore the
// department filter since they belong to no attendee.
func (r *Report) Rows(kind Kind, department string) ([]export.Record, error) {
	switch kind {
	case KindSummary:
		return export.SummaryRecords(r.Summaries(department)), nil
	case KindAttendance:
		return export.AttendanceRecords(r.Filter(department, "")), nil
	case KindPending:
		return export.AttendanceRecords(r.Filter(department, model.StatusPending)), nil
	case KindDuplicates:
		return export.AttendeeRecords(r.DuplicatesIn(department)), nil
	case KindOrphans:
		return export.ResponseRecords(r.Orphans), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// File is a rendered export ready for download or disk.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Export renders a report kind in a format. An empty selection returns
// export.ErrNothingToExport.
func (r *Report) Export(kind Kind, department string, format Format) (*File, error) {
	rows, err := r.Rows(kind, department)
	if err != nil {
		return nil, err
	}

	name := export.Filename(string(kind), department, r.GeneratedAt, string(format))
	if AllDepartments(department) {
		name = export.Filename(string(kind), "", r.GeneratedAt, string(format))
	}

	switch format {
	case FormatCSV:
		text, err := export.CSV(rows)
		if err != nil {
			return nil, err
		}
		return &File{Name: name, ContentType: "text/csv; charset=utf-8", Data: []byte(text)}, nil
	case FormatXLSX:
		data, err := export.XLSX(rows, string(kind))
		if err != nil {
			return nil, err
		}
		return &File{
			Name:        name,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
