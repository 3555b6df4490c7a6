/*
export.go - Rendering and delivery of employee exports

PURPOSE:
  Turns the filtered, sorted, unpaginated result sequence into a file
  (CSV or XLSX) and hands it to a Sink. The HTTP layer streams documents
  straight to the client; StoreSink files them in a blob store.

FLOW:
  records --Render--> Document --Sink.Deliver--> Receipt

SEE ALSO:
  - export/csv.go: CSV encoding
  - export/xlsx.go: Spreadsheet encoding
  - sink/sink.go: Blob stores used by StoreSink
*/
package export

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/warp/employee-directory/directory"
)

// Format selects the file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ErrUnsupportedFormat is returned for anything other than csv or xlsx.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts "csv" (also the default for "") and "xlsx".
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
}

// Filename is employees.<format>.
func (f Format) Filename() string { return "employees." + string(f) }

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return ContentTypeXLSX
	}
	return ContentTypeCSV
}

// Header is the column row shared by every format.
var Header = []string{
	"ID", "First Name", "Last Name", "Email", "Phone", "Department", "Role",
	"Salary", "Hire Date", "Status", "Location", "Manager", "Skills", "Performance",
}

// Row renders one record in Header order. Skills are joined with ";".
func Row(e directory.Employee) []string {
	return []string{
		strconv.Itoa(e.ID),
		e.FirstName,
		e.LastName,
		e.Email,
		e.Phone,
		e.Department,
		e.Role,
		e.Salary.String(),
		e.HireDateISO(),
		string(e.Status),
		e.Location,
		e.Manager,
		strings.Join(e.Skills, ";"),
		strconv.FormatFloat(e.Performance, 'f', -1, 64),
	}
}

// Document is a rendered export ready for delivery.
type Document struct {
	Format      Format
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
	CreatedAt   time.Time
}

// Receipt describes where a document ended up.
type Receipt struct {
	ID          string    `json:"id,omitempty"`
	Key         string    `json:"key,omitempty"`
	Driver      string    `json:"driver"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Rows        int       `json:"rows"`
	CreatedAt   time.Time `json:"created_at"`
}

// Sink receives rendered documents.
type Sink interface {
	Deliver(ctx context.Context, doc Document) (Receipt, error)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, doc Document) (Receipt, error)

func (f SinkFunc) Deliver(ctx context.Context, doc Document) (Receipt, error) { return f(ctx, doc) }

// Options tune rendering.
type Options struct {
	// Legacy emits CSV the way the browser download always has: no
	// quoting, "\n" line breaks and no trailing newline.
	Legacy bool
}

// Exporter renders records and delivers them to its sink.
type Exporter struct {
	sink Sink
	opts Options
	now  func() time.Time
}

func NewExporter(sink Sink, opts Options) *Exporter {
	return &Exporter{sink: sink, opts: opts, now: func() time.Time { return time.Now().UTC() }}
}

// Render encodes records without delivering them.
func (x *Exporter) Render(records []directory.Employee, format Format) (Document, error) {
	var (
		body []byte
		err  error
	)
	switch format {
	case FormatCSV:
		body, err = CSV(records, x.opts)
	case FormatXLSX:
		body, err = XLSX(records)
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Document{}, fmt.Errorf("render %s: %w", format, err)
	}
	return Document{
		Format:      format,
		Filename:    format.Filename(),
		ContentType: format.ContentType(),
		Body:        body,
		Rows:        len(records),
		CreatedAt:   x.now(),
	}, nil
}

// Export renders and delivers. Delivery failures are wrapped.
func (x *Exporter) Export(ctx context.Context, records []directory.Employee, format Format) (Receipt, error) {
	doc, err := x.Render(records, format)
	if err != nil {
		return Receipt{}, err
	}
	receipt, err := x.sink.Deliver(ctx, doc)
	if err != nil {
		return Receipt{}, fmt.Errorf("deliver %s: %w", doc.Filename, err)
	}
	return receipt, nil
}

// Func adapts the exporter to a directory.ExportFunc for Session.Export.
// The receipt of the last successful delivery is written to *receipt.
func (x *Exporter) Func(format Format, receipt *Receipt) directory.ExportFunc {
	return func(ctx context.Context, records []directory.Employee) error {
		r, err := x.Export(ctx, records, format)
		if err != nil {
			return err
		}
		if receipt != nil {
			*receipt = r
		}
		return nil
	}
}
