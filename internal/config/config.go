// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and the environment.
// - External errors must be wrapped via this package's error kinds.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Source modes.
const (
	SourceCSV  = "csv"
	SourceJSON = "json"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// Source selects the input adapter: csv (published sheet) or json (backend script).
	Source string `koanf:"source" validate:"required,oneof=csv json"`

	// SheetURL is the published CSV of the submissions sheet (csv mode).
	SheetURL string `koanf:"sheet_url" validate:"omitempty,url"`

	// BackendURL is the script endpoint serving employees and responses (json mode).
	BackendURL string `koanf:"backend_url" validate:"omitempty,url"`

	// EmployeesAction and ResponsesAction are the ?action= values of the backend.
	EmployeesAction string `koanf:"employees_action" validate:"required"`
	ResponsesAction string `koanf:"responses_action" validate:"required"`

	// HTTPTimeoutMS bounds each upstream fetch.
	HTTPTimeoutMS int `koanf:"http_timeout_ms" validate:"gt=0"`

	// ExportDir is where the export command writes report files.
	ExportDir string `koanf:"export_dir" validate:"required"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		Source:          SourceCSV,
		EmployeesAction: "employees",
		ResponsesAction: "responses",
		HTTPTimeoutMS:   15_000,
		ExportDir:       ".",
	}
}

// SourceURL returns the upstream URL of the selected source.
func (c *Config) SourceURL() string {
	if c.Source == SourceJSON {
		return c.BackendURL
	}
	return c.SheetURL
}

var validate = newValidator() //nolint:gochecknoglobals // validator caches struct metadata

func newValidator() *validator.Validate {
	v := validator.New()
	// Report koanf keys rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks field formats and ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, describe(err))
	}
	return nil
}

// ValidateSource checks that the selected source has a usable URL. It is
// separate from Validate so commands that never fetch can run without one.
func (c *Config) ValidateSource() error {
	key := "sheet_url"
	if c.Source == SourceJSON {
		key = "backend_url"
	}
	if err := validate.Var(c.SourceURL(), "required,url"); err != nil {
		return fmt.Errorf("%w: %s must be set to a valid url for source %q", ErrInvalidConfig, key, c.Source)
	}
	return nil
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" must not be empty")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is not a valid %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
