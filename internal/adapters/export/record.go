// Package export serializes uniform record sequences to CSV and XLSX.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/evalrecon/internal/domain/aggregate"
	"github.com/okian/evalrecon/internal/domain/model"
)

// Field is one named cell of a record.
type Field struct {
	Key   string
	Value any
}

// Record is an ordered set of fields. Records in one export share the key
// set of the first record.
type Record []Field

// Keys returns the field keys in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the value for key, or nil when absent.
func (r Record) Get(key string) any {
	for _, f := range r {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// valueAt prefers the positional field and falls back to a key lookup.
func (r Record) valueAt(i int, key string) any {
	if i < len(r) && r[i].Key == key {
		return r[i].Value
	}
	return r.Get(key)
}

// Format renders a value as cell text; nil and nil pointers render as "".
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case *float64:
		if x == nil {
			return ""
		}
		return strconv.FormatFloat(*x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case *int:
		if x == nil {
			return ""
		}
		return strconv.Itoa(*x)
	default:
		return fmt.Sprint(x)
	}
}

// SummaryRecords lays out department summaries.
func SummaryRecords(rows []model.DepartmentSummary) []Record {
	out := make([]Record, 0, len(rows))
	for _, s := range rows {
		out = append(out, Record{
			{Key: "departemen", Value: s.Department},
			{Key: "total", Value: s.Total},
			{Key: "done", Value: s.Done},
			{Key: "pending", Value: s.Pending},
			{Key: "percent", Value: s.Percent},
		})
	}
	return out
}

// AttendanceRecords lays out reconciled records.
func AttendanceRecords(rows []model.ReconciledRecord) []Record {
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, Record{
			{Key: "nik", Value: r.ID},
			{Key: "nama", Value: r.Name},
			{Key: "departemen", Value: r.Department},
			{Key: "status", Value: string(r.Status)},
			{Key: "nilai", Value: r.Score},
			{Key: "waktu", Value: r.Timestamp},
		})
	}
	return out
}

// AttendeeRecords lays out attendees, e.g. duplicate entries.
func AttendeeRecords(rows []model.Attendee) []Record {
	out := make([]Record, 0, len(rows))
	for _, a := range rows {
		out = append(out, Record{
			{Key: "nik", Value: a.ID},
			{Key: "nama", Value: a.Name},
			{Key: "departemen", Value: a.Department},
		})
	}
	return out
}

// ResponseRecords lays out responses, e.g. orphans.
func ResponseRecords(rows []model.Response) []Record {
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, Record{
			{Key: "nik", Value: r.ID},
			{Key: "nilai", Value: r.Score},
			{Key: "waktu", Value: r.Timestamp},
		})
	}
	return out
}

// Filename builds <kind>_<department or "semua">_<YYYY-MM-DD>.<ext>.
func Filename(kind, department string, date time.Time, ext string) string {
	dept := strings.TrimSpace(department)
	if dept == "" {
		dept = aggregate.AllDepartments
	}
	dept = unsafeChars.Replace(dept)
	return fmt.Sprintf("%s_%s_%s.%s", kind, dept, date.Format(time.DateOnly), ext)
}

var unsafeChars = strings.NewReplacer(
	"/", "-", `\`, "-", ":", "-", "*", "-", "?", "-",
	`"`, "-", "<", "-", ">", "-", "|", "-",
)
