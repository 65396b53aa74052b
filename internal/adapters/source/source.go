// Package source fetches raw roster and response data from upstream and
// maps it into a dataset for the reconciliation core. Each adapter does
// exactly one fetch per dataset per Load; there are no retries and no
// caching, so every Load reflects the live spreadsheet.
package source

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/okian/evalrecon/internal/config"
	"github.com/okian/evalrecon/internal/domain/model"
	"github.com/okian/evalrecon/pkg/metrics"
)

// Source produces a fresh dataset on every call.
type Source interface {
	// Name identifies the adapter in logs and metrics.
	Name() string
	Load(ctx context.Context) (model.Dataset, error)
}

const defaultTimeout = 15 * time.Second

// Option configures an adapter.
type Option func(*options)

type options struct {
	client  *resty.Client
	timeout time.Duration
}

// WithClient replaces the HTTP client, e.g. for tests. The client is
// used as given; the fetch timeout is applied per request.
func WithClient(c *resty.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}

// WithTimeout bounds each fetch through the request context.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = resty.New()
	}
	return o
}

// FromConfig selects the adapter named by cfg.Source.
func FromConfig(cfg *config.Config, opts ...Option) (Source, error) {
	if err := cfg.ValidateSource(); err != nil {
		return nil, err
	}
	opts = append([]Option{WithTimeout(time.Duration(cfg.HTTPTimeoutMS) * time.Millisecond)}, opts...)
	if cfg.Source == config.SourceJSON {
		return NewBackend(cfg.BackendURL, cfg.EmployeesAction, cfg.ResponsesAction, opts...), nil
	}
	return NewSheet(cfg.SheetURL, opts...), nil
}

// fetch performs one GET bounded by the configured timeout and returns
// the body of a 2xx response.
func (o options) fetch(ctx context.Context, src, dataset, url string, query map[string]string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	req := o.client.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(url)
	elapsed := float64(time.Since(start).Milliseconds())

	if err != nil {
		metrics.RecordFetch(src, dataset, elapsed, true)
		return nil, &TransportError{Dataset: dataset, URL: url, Err: err}
	}
	if !resp.IsSuccess() {
		metrics.RecordFetch(src, dataset, elapsed, true)
		return nil, &TransportError{
			Dataset:    dataset,
			URL:        url,
			StatusCode: resp.StatusCode(),
			Err:        ErrTransport,
		}
	}
	metrics.RecordFetch(src, dataset, elapsed, false)
	return resp.Body(), nil
}
