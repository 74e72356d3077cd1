package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// HeaderRowOffset converts a zero-based data row index into the line number
// of the original file, counting the header line.
const HeaderRowOffset = 2

// DefaultStatus is stored for rows without a status column or value.
const DefaultStatus = "ACTIVE"

// Candidate is a validated record ready to be written.
type Candidate struct {
	TypeID uint
	Title  string
	Status string
	Data   map[string]any
}

// RecordWriter persists accepted candidates. CreateMany must be all-or-nothing.
type RecordWriter interface {
	CreateMany(ctx context.Context, candidates []Candidate) (int, error)
}

// RowError describes why one input row was rejected.
type RowError struct {
	Row    int    `json:"row"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// Result summarises one ingestion.
type Result struct {
	TypeSlug     string     `json:"type_slug"`
	SuccessCount int        `json:"success_count"`
	FailCount    int        `json:"fail_count"`
	Errors       []RowError `json:"errors"`
}

// StorageWriteError means the bulk insert of accepted rows failed. Nothing
// from the batch was written.
type StorageWriteError struct {
	Attempted int
	Err       error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("write %d accepted rows: %v", e.Attempted, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// Ingester validates tabular rows against one schema and writes the accepted rows in one batch.
type Ingester struct {
	schemas SchemaSource
	writer  RecordWriter
}

func NewIngester(schemas SchemaSource, writer RecordWriter) *Ingester {
	return &Ingester{schemas: schemas, writer: writer}
}

// Ingest resolves slug once, classifies every row and bulk-writes the
// accepted ones. A missing schema aborts before any row is looked at. On a
// storage failure the returned Result still carries the row errors and a
// SuccessCount of zero, alongside a *StorageWriteError.
func (in *Ingester) Ingest(ctx context.Context, slug string, rows []Row) (*Result, error) {
	schema, err := in.schemas.ActiveSchema(ctx, slug)
	if err != nil {
		return nil, err
	}

	result := &Result{TypeSlug: schema.Slug, Errors: []RowError{}}
	accepted := make([]Candidate, 0, len(rows))
	for i, row := range rows {
		candidate, rowErr := classify(schema, row)
		if rowErr != nil {
			rowErr.Row = i + HeaderRowOffset
			result.Errors = append(result.Errors, *rowErr)
			continue
		}
		accepted = append(accepted, candidate)
	}
	result.FailCount = len(result.Errors)

	if len(accepted) == 0 {
		return result, nil
	}
	written, err := in.writer.CreateMany(ctx, accepted)
	if err != nil {
		return result, &StorageWriteError{Attempted: len(accepted), Err: err}
	}
	result.SuccessCount = written
	return result, nil
}

// classify validates one row and stops at the first failure.
func classify(schema *Schema, row Row) (Candidate, *RowError) {
	title := strings.TrimSpace(row["title"])
	if title == "" {
		title = strings.TrimSpace(row["name"])
	}
	if title == "" {
		return Candidate{}, &RowError{Reason: ReasonMissingTitle}
	}

	status := strings.TrimSpace(row["status"])
	if status == "" {
		status = DefaultStatus
	}

	data := make(map[string]any, len(schema.Fields))
	for _, field := range schema.Fields {
		v, err := Validate(field, row[field.Key])
		if err != nil {
			reason := err.Error()
			var fe *FieldError
			if errors.As(err, &fe) {
				reason = fe.Reason
			}
			return Candidate{}, &RowError{Field: field.Key, Reason: reason}
		}
		if v.Present {
			data[field.Key] = v.V
		}
	}

	return Candidate{
		TypeID: schema.TypeID,
		Title:  title,
		Status: strings.ToUpper(status),
		Data:   data,
	}, nil
}
