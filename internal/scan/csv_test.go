package scan

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVReader_Defaults(t *testing.T) {
	r := NewCSVReader()
	assert.Equal(t, "CSV", r.Name())
	assert.Equal(t, "Comma-Separated Values Files (*.csv)", r.FileFilter())

	points, err := r.Read(strings.NewReader("# y,x\n0.5,1.5\n\n-2, 3e-6\n#trailing comment\n"))
	require.NoError(t, err)

	want := []Point{pt("1.5", "0.5"), pt("0.000003", "-2")}
	if diff := cmp.Diff(want, points, decimalComparer); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVReader_CommentsWithQuotes(t *testing.T) {
	in := "# sample \"A\" positions, 2\" step\n0.5,1.5\n#\"unterminated\n-2,3\n"
	points, err := NewCSVReader().Read(strings.NewReader(in))
	require.NoError(t, err)

	want := []Point{pt("1.5", "0.5"), pt("3", "-2")}
	if diff := cmp.Diff(want, points, decimalComparer); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVReader_CustomColumns(t *testing.T) {
	r := &CSVReader{XColumn: 0, YColumn: 2}
	points, err := r.Read(strings.NewReader("1,ignored,2\n3,ignored,4,extra\n"))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]Point{pt("1", "2"), pt("3", "4")}, points, decimalComparer))
}

func TestCSVReader_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		line int
	}{
		{"too few columns", "0,1\n2\n", 2},
		{"bad x", "# header\n0,abc\n", 2},
		{"bad y", "0,1\n1,2\nnan?,3\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCSVReader().Read(strings.NewReader(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	points := []Point{
		pt("0", "0"),
		pt("0.000001", "-0.0000025"),
		pt("12345.678901234567890123", "1e-12"),
		pt("-3", "7"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, points))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(points))
	assert.Equal(t, "-0.0000025,0.000001", lines[1], "written as y,x")

	got, err := NewCSVReader().Read(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(points, got, decimalComparer); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
