// Package reconcile joins attendees with their responses.
package reconcile

import (
	"github.com/okian/evalrecon/internal/domain/dedupe"
	"github.com/okian/evalrecon/internal/domain/model"
)

// Result is the outcome of one join.
type Result struct {
	// Records holds one entry per attendee, in attendee order.
	Records []model.ReconciledRecord
	// Orphans are responses whose id matches no attendee, in input order.
	Orphans []model.Response
}

// Join marks each attendee done when a response with the same normalized id
// exists, pending otherwise. When several responses share an id the first
// one wins. Attendees are expected to be deduplicated already.
func Join(attendees []model.Attendee, responses []model.Response) Result {
	index := make(map[string]model.Response, len(responses))
	for _, r := range dedupe.First(responses, model.Response.Key) {
		index[r.Key()] = r
	}

	res := Result{Records: make([]model.ReconciledRecord, 0, len(attendees))}
	known := make(map[string]struct{}, len(attendees))
	for _, a := range attendees {
		key := a.Key()
		known[key] = struct{}{}

		rec := model.ReconciledRecord{
			ID:         a.ID,
			Name:       a.Name,
			Department: a.Department,
			Status:     model.StatusPending,
		}
		if r, ok := index[key]; ok {
			ts := r.Timestamp
			rec.Status = model.StatusDone
			rec.Timestamp = &ts
			rec.Score = r.Score
		}
		res.Records = append(res.Records, rec)
	}

	for _, r := range responses {
		if _, ok := known[r.Key()]; !ok {
			res.Orphans = append(res.Orphans, r)
		}
	}
	return res
}
