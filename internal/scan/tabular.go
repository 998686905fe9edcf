package scan

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/ptychodus/ptycho/internal/fsutil"
	"github.com/ptychodus/ptycho/internal/monitoring"
)

// Tabular is the "Custom" generator: points loaded verbatim from a scan
// file. It reloads whenever the CustomFileType or CustomFilePath settings
// change.
type Tabular struct {
	settings *Settings
	fsys     fsutil.FileSystem
	readers  []FileReader
	reader   FileReader
	points   []Point
	opening  bool
	logf     func(format string, v ...interface{})
}

// NewTabular returns a Custom generator using the given readers, or a CSV
// reader when none are given. The file named in settings, if any, is loaded
// immediately.
func NewTabular(s *Settings, fsys fsutil.FileSystem, readers ...FileReader) *Tabular {
	if len(readers) == 0 {
		readers = []FileReader{NewCSVReader()}
	}
	t := &Tabular{
		settings: s,
		fsys:     fsys,
		readers:  append([]FileReader(nil), readers...),
		reader:   readers[0],
		logf:     monitoring.Component("ScanFile"),
	}
	t.updateFileReader()
	t.load(s.CustomFilePath.Value())

	s.CustomFileType.Subscribe(func(string) {
		if !t.opening {
			t.updateFileReader()
		}
	})
	s.CustomFilePath.Subscribe(func(path string) {
		if !t.opening {
			t.load(path)
		}
	})
	return t
}

func (t *Tabular) Name() string { return "Custom" }

func (t *Tabular) Len() int { return len(t.points) }

func (t *Tabular) At(i int) (Point, error) {
	if err := checkIndex(i, len(t.points)); err != nil {
		return Point{}, err
	}
	return t.points[i], nil
}

// FileFilters lists the display filters of the registered readers.
func (t *Tabular) FileFilters() []string {
	out := make([]string, len(t.readers))
	for i, r := range t.readers {
		out[i] = r.FileFilter()
	}
	return out
}

// FileType returns the simple name of the current reader.
func (t *Tabular) FileType() string {
	return t.reader.Name()
}

// Open loads path with the reader registered for fileFilter and records the
// choice in settings. It returns false when no reader matches the filter.
// Unreadable or malformed files leave the generator empty.
func (t *Tabular) Open(path, fileFilter string) bool {
	var reader FileReader
	for _, r := range t.readers {
		if r.FileFilter() == fileFilter {
			reader = r
			break
		}
	}
	if reader == nil {
		t.logf("Invalid scan file filter %q", fileFilter)
		return false
	}

	if path != "" {
		path = filepath.Clean(path)
	}

	t.opening = true
	t.reader = reader
	t.settings.CustomFileType.Set(reader.Name())
	t.settings.CustomFilePath.Set(path)
	t.opening = false

	t.load(path)
	return true
}

func (t *Tabular) updateFileReader() {
	fileType := t.settings.CustomFileType.Value()
	for _, r := range t.readers {
		if strings.EqualFold(r.Name(), fileType) {
			t.reader = r
			t.settings.CustomFileType.Set(r.Name())
			return
		}
	}
	t.logf("Invalid scan file type %q", fileType)
}

func (t *Tabular) load(path string) {
	t.points = nil
	if path == "" {
		return
	}
	if !fsutil.IsFile(t.fsys, path) {
		t.logf("Refusing to read invalid file path %q", path)
		return
	}

	f, err := t.fsys.Open(path)
	if err != nil {
		t.logf("Failed to open %q: %v", path, err)
		return
	}
	defer f.Close()

	points, err := t.reader.Read(f)
	if err != nil {
		if errors.Is(err, ErrParse) {
			t.logf("Failed to parse %q: %v", path, err)
		} else {
			t.logf("Failed to read %q: %v", path, err)
		}
		return
	}

	t.logf("Read %d points from %q as %s", len(points), path, t.reader.Name())
	t.points = points
}
