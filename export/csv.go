package export

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/warp/employee-directory/directory"
)

// CSV renders a header row plus one row per record. Fields are quoted per
// RFC 4180 unless opts.Legacy is set.
func CSV(records []directory.Employee, opts Options) ([]byte, error) {
	if opts.Legacy {
		return legacyCSV(records), nil
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, e := range records {
		if err := w.Write(Row(e)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// legacyCSV joins cells with "," and rows with "\n" and never quotes, so a
// location like "New York, NY" spills into an extra column.
func legacyCSV(records []directory.Employee) []byte {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(Header, ","))
	for _, e := range records {
		lines = append(lines, strings.Join(Row(e), ","))
	}
	return []byte(strings.Join(lines, "\n"))
}
