// Package aggregate computes per-department completion statistics.
package aggregate

import (
	"sort"

	"github.com/okian/evalrecon/internal/domain/model"
)

// AllDepartments labels the overall row and the "every department" filter.
const AllDepartments = "semua"

// Group buckets records by department name. Names are compared exactly,
// case-sensitive, as they come from the sheet.
func Group(records []model.ReconciledRecord) map[string][]model.ReconciledRecord {
	groups := make(map[string][]model.ReconciledRecord)
	for _, r := range records {
		groups[r.Department] = append(groups[r.Department], r)
	}
	return groups
}

// ByDepartment returns one summary per department, sorted by name.
func ByDepartment(records []model.ReconciledRecord) []model.DepartmentSummary {
	groups := Group(records)
	out := make([]model.DepartmentSummary, 0, len(groups))
	for dept, recs := range groups {
		done := 0
		for _, r := range recs {
			if r.Done() {
				done++
			}
		}
		out = append(out, summarize(dept, len(recs), done))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

// Totals folds department summaries into a single overall row.
func Totals(summaries []model.DepartmentSummary) model.DepartmentSummary {
	total, done := 0, 0
	for _, s := range summaries {
		total += s.Total
		done += s.Done
	}
	return summarize(AllDepartments, total, done)
}

// Percent is round-half-up of 100*done/total, or 0 when total is 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*done + total) / (2 * total)
}

func summarize(dept string, total, done int) model.DepartmentSummary {
	return model.DepartmentSummary{
		Department: dept,
		Total:      total,
		Done:       done,
		Pending:    total - done,
		Percent:    Percent(done, total),
	}
}
