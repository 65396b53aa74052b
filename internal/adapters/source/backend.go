package source

import (
	"context"
	"fmt"

	"github.com/okian/evalrecon/internal/domain/mapper"
	"github.com/okian/evalrecon/internal/domain/model"
	"github.com/okian/evalrecon/pkg/metrics"
)

const (
	backendName      = "json"
	employeesDataset = "employees"
	responsesDataset = "responses"
	actionQueryParam = "action"
)

// Backend reads employees and responses from the script endpoint, one
// request per dataset keyed by the action query parameter.
type Backend struct {
	url             string
	employeesAction string
	responsesAction string
	options
}

// NewBackend creates a JSON-via-backend adapter.
func NewBackend(url, employeesAction, responsesAction string, opts ...Option) *Backend {
	return &Backend{
		url:             url,
		employeesAction: employeesAction,
		responsesAction: responsesAction,
		options:         buildOptions(opts),
	}
}

func (b *Backend) Name() string { return backendName }

// Load fetches the roster, then the responses. A failure of either aborts
// the whole load.
func (b *Backend) Load(ctx context.Context) (model.Dataset, error) {
	raw, err := b.fetch(ctx, backendName, employeesDataset, b.url,
		map[string]string{actionQueryParam: b.employeesAction})
	if err != nil {
		return model.Dataset{}, err
	}
	attendees, err := mapper.AttendeesFromJSON(raw)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("%w: %s: %v", ErrPayload, employeesDataset, err)
	}

	raw, err = b.fetch(ctx, backendName, responsesDataset, b.url,
		map[string]string{actionQueryParam: b.responsesAction})
	if err != nil {
		return model.Dataset{}, err
	}
	responses, err := mapper.ResponsesFromJSON(raw)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("%w: %s: %v", ErrPayload, responsesDataset, err)
	}

	metrics.RecordRows(employeesDataset, len(attendees.Records), attendees.Rejected)
	metrics.RecordRows(responsesDataset, len(responses.Records), responses.Rejected)

	return model.Dataset{
		Attendees:         attendees.Records,
		Responses:         responses.Records,
		RejectedAttendees: attendees.Rejected,
		RejectedResponses: responses.Rejected,
	}, nil
}
