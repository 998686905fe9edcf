package scan

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// CSVFileFilter is the file filter shown for comma-separated scan files.
const CSVFileFilter = "Comma-Separated Values Files (*.csv)"

// FileReader parses scan points from a file format.
type FileReader interface {
	// Name is the simple file-type name stored in settings, e.g. "CSV".
	Name() string
	// FileFilter is the display filter used to pick the reader.
	FileFilter() string
	Read(r io.Reader) ([]Point, error)
}

// CSVReader reads comma-separated scan files. Rows whose first field starts
// with '#' are comments.
type CSVReader struct {
	XColumn int
	YColumn int
}

// NewCSVReader returns a reader for files written by WriteCSV: column 0 is
// y and column 1 is x.
func NewCSVReader() *CSVReader {
	return &CSVReader{XColumn: 1, YColumn: 0}
}

func (r *CSVReader) Name() string       { return "CSV" }
func (r *CSVReader) FileFilter() string { return CSVFileFilter }

// Read parses every data row. A row with too few columns or a non-numeric
// coordinate yields a *ParseError.
func (r *CSVReader) Read(in io.Reader) ([]Point, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	minColumns := max(r.XColumn, r.YColumn) + 1
	var points []Point

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &ParseError{Line: perr.Line, Msg: "invalid csv", Err: perr.Err}
			}
			return nil, fmt.Errorf("read scan file: %w", err)
		}

		line, _ := cr.FieldPos(0)
		if strings.HasPrefix(row[0], "#") {
			continue
		}
		if len(row) < minColumns {
			return nil, &ParseError{
				Line: line,
				Msg:  fmt.Sprintf("expected at least %d columns, got %d", minColumns, len(row)),
			}
		}

		x, err := decimal.NewFromString(strings.TrimSpace(row[r.XColumn]))
		if err != nil {
			return nil, &ParseError{Line: line, Msg: "invalid x coordinate", Err: err}
		}
		y, err := decimal.NewFromString(strings.TrimSpace(row[r.YColumn]))
		if err != nil {
			return nil, &ParseError{Line: line, Msg: "invalid y coordinate", Err: err}
		}
		points = append(points, Point{X: x, Y: y})
	}

	return points, nil
}

// WriteCSV writes one "y,x" line per point with no header.
func WriteCSV(w io.Writer, points []Point) error {
	bw := bufio.NewWriter(w)
	for _, p := range points {
		if _, err := fmt.Fprintf(bw, "%s,%s\n", p.Y.String(), p.X.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
