// Package mapper maps raw sheet rows and backend JSON objects onto domain
// records. Rows missing a required field are dropped and counted, never
// returned as errors.
package mapper

import (
	"strconv"
	"strings"

	"github.com/okian/evalrecon/internal/domain/model"
	"github.com/tidwall/gjson"
)

// Fixed column positions of the published sheet. Column 1 (email) and
// anything past the department are ignored.
const (
	colTimestamp  = 0
	colName       = 2
	colDepartment = 3
)

// JSON keys used by the backend script.
const (
	keyID         = "nik"
	keyName       = "nama"
	keyDepartment = "departemen"
	keyScore      = "nilai"
	keyTime       = "waktu"
	keyData       = "data"
)

// Result carries mapped records and how many inputs were rejected.
type Result[T any] struct {
	Records  []T
	Rejected int
}

// SheetRow is one submission line of the published sheet.
type SheetRow struct {
	Timestamp  string
	Name       string
	Department string
}

// SheetRowFromFields maps a parsed field array by column position.
// Missing columns default to "".
func SheetRowFromFields(fields []string) SheetRow {
	return SheetRow{
		Timestamp:  column(fields, colTimestamp),
		Name:       column(fields, colName),
		Department: column(fields, colDepartment),
	}
}

// Valid reports whether the row names a person and a department.
func (r SheetRow) Valid() bool {
	return r.Name != "" && r.Department != ""
}

// FromSheet maps sheet rows into a dataset. A sheet row is a submission:
// it yields an attendee identified by name and a response pointing at
// that name, stamped with the row timestamp.
func FromSheet(rows [][]string) model.Dataset {
	var ds model.Dataset
	for _, fields := range rows {
		row := SheetRowFromFields(fields)
		if !row.Valid() {
			ds.RejectedAttendees++
			continue
		}
		ds.Attendees = append(ds.Attendees, model.Attendee{
			Name:       row.Name,
			Department: row.Department,
		})
		ds.Responses = append(ds.Responses, model.Response{
			ID:        row.Name,
			Timestamp: row.Timestamp,
		})
	}
	return ds
}

// AttendeesFromJSON maps an array of {nik, nama, departemen} objects.
func AttendeesFromJSON(raw []byte) (Result[model.Attendee], error) {
	var res Result[model.Attendee]
	items, err := array(raw)
	if err != nil {
		return res, err
	}
	for _, it := range items {
		a := model.Attendee{
			ID:         text(it.Get(keyID)),
			Name:       text(it.Get(keyName)),
			Department: text(it.Get(keyDepartment)),
		}
		if a.Key() == "" || a.Department == "" {
			res.Rejected++
			continue
		}
		res.Records = append(res.Records, a)
	}
	return res, nil
}

// ResponsesFromJSON maps an array of {nik, nilai, waktu} objects.
func ResponsesFromJSON(raw []byte) (Result[model.Response], error) {
	var res Result[model.Response]
	items, err := array(raw)
	if err != nil {
		return res, err
	}
	for _, it := range items {
		r := model.Response{
			ID:        text(it.Get(keyID)),
			Timestamp: text(it.Get(keyTime)),
			Score:     number(it.Get(keyScore)),
		}
		if r.ID == "" {
			res.Rejected++
			continue
		}
		res.Records = append(res.Records, r)
	}
	return res, nil
}

// array accepts a bare JSON array or one wrapped as {"data": [...]}.
func array(raw []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrMalformedJSON
	}
	doc := gjson.ParseBytes(raw)
	if doc.IsObject() {
		doc = doc.Get(keyData)
	}
	if !doc.IsArray() {
		return nil, ErrNotArray
	}
	return doc.Array(), nil
}

func column(fields []string, i int) string {
	if i < len(fields) {
		return strings.TrimSpace(fields[i])
	}
	return ""
}

// text renders a scalar as trimmed text. Numbers keep their literal form so
// an id sent as 1002 maps to "1002".
func text(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(v.Str)
	case gjson.Number, gjson.True, gjson.False:
		return strings.TrimSpace(v.Raw)
	default:
		return ""
	}
}

// number returns a score when v is numeric or a numeric string.
func number(v gjson.Result) *float64 {
	switch v.Type {
	case gjson.Number:
		f := v.Num
		return &f
	case gjson.String:
		s := strings.TrimSpace(strings.ReplaceAll(v.Str, ",", "."))
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
