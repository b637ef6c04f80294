// Package pipeline runs one dashboard render: load, normalize, summarize.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/KaramelBytes/cancerlens/internal/analysis"
	"github.com/KaramelBytes/cancerlens/internal/config"
	"github.com/KaramelBytes/cancerlens/internal/dataset"
)

// Options describes where the dataset lives and how to label it.
type Options struct {
	Path        string
	Load        dataset.LoadOptions
	Schema      dataset.Schema
	Labels      []string
	PreviewRows int
}

// OptionsFromConfig maps the global configuration onto pipeline options.
func OptionsFromConfig(c *config.Global) Options {
	return Options{
		Path:        c.DatasetPath,
		Load:        dataset.LoadOptions{Sheet: c.Sheet},
		Schema:      dataset.Schema{IDColumn: c.IDColumn, SeverityColumn: c.SeverityColumn},
		Labels:      c.Labels,
		PreviewRows: c.PreviewRows,
	}
}

// Report is everything one render hands to the presentation layer.
type Report struct {
	ID       uuid.UUID
	Source   string
	Frame    *dataset.Frame
	Encoding dataset.Encoding
	Summary  []analysis.SummaryRow
	Preview  [][]float64
	BuiltAt  time.Time
}

// ConfigError indicates the caller-supplied labels do not fit the dataset.
type ConfigError struct {
	Labels  int
	Columns int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("label list has %d entries but the prepared dataset has %d columns", e.Labels, e.Columns)
}

// Build loads and prepares the dataset and computes its statistics. On any
// failure it returns no report at all.
func Build(ctx context.Context, opt Options) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	id := uuid.New()
	start := time.Now()
	l := logger.With().Str("render_id", id.String()).Str("path", opt.Path).Logger()

	raw, err := dataset.Load(opt.Path, opt.Load)
	if err != nil {
		l.Warn().Err(err).Msg("dataset load failed")
		return nil, err
	}
	l.Debug().Int("rows", len(raw.Rows)).Int("cols", len(raw.Columns)).Msg("dataset loaded")

	frame, enc, err := dataset.Prepare(raw, opt.Schema)
	if err != nil {
		l.Warn().Err(err).Msg("dataset normalize failed")
		return nil, err
	}
	l.Debug().Strs("severity_labels", enc.Labels).Msg("severity encoded")

	labels := opt.Labels
	if len(labels) == 0 {
		labels = frame.Columns
	}
	if len(labels) != frame.NumCols() {
		err := &ConfigError{Labels: len(labels), Columns: frame.NumCols()}
		l.Warn().Err(err).Msg("label list mismatch")
		return nil, err
	}

	rep := &Report{
		ID:       id,
		Source:   raw.Name,
		Frame:    frame,
		Encoding: enc,
		Summary:  analysis.Describe(frame, labels),
		Preview:  frame.Head(opt.PreviewRows),
		BuiltAt:  time.Now(),
	}
	l.Info().Int("rows", frame.NumRows()).Dur("took", time.Since(start)).Msg("render built")
	return rep, nil
}

// UserMessage converts a Build failure into the message shown to users.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var nf *dataset.NotFoundError
	if errors.As(err, &nf) {
		return "The dataset file was not found. Please check the file path."
	}
	return fmt.Sprintf("An error occurred: %v", err)
}

// Outcome classifies err for metrics and status codes.
func Outcome(err error) string {
	var (
		nf *dataset.NotFoundError
		se *dataset.SchemaError
		le *dataset.LoadError
		ce *ConfigError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &nf):
		return "not_found"
	case errors.As(err, &se):
		return "schema"
	case errors.As(err, &le):
		return "load"
	case errors.As(err, &ce):
		return "config"
	default:
		return "error"
	}
}
