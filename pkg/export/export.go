// Package export writes matched profiles to JSON, CSV and XLSX files.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/codeGROOVE-dev/substackfinder/pkg/profile"
)

// Format is an output file format.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// DefaultPrefix names exported files.
const DefaultPrefix = "substack_profiles"

const sheetName = "Profiles"

// Columns is the tabular column order shared by CSV and XLSX.
var Columns = []string{"handle", "name", "bio", "url", "matched_keywords", "subscribers", "discovered_at"}

// ParseFormats converts format names, rejecting unknown ones.
func ParseFormats(names []string) ([]Format, error) {
	formats := make([]Format, 0, len(names))
	seen := make(map[Format]bool)
	for _, n := range names {
		f := Format(strings.ToLower(strings.TrimSpace(n)))
		switch f {
		case JSON, CSV, XLSX:
		default:
			return nil, fmt.Errorf("unknown export format %q", n)
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// Exporter writes result files into a directory.
type Exporter struct {
	logger  *slog.Logger
	dir     string
	prefix  string
	formats []Format
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithPrefix sets the file name prefix.
func WithPrefix(prefix string) Option {
	return func(e *Exporter) { e.prefix = prefix }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Exporter writing formats into dir.
func New(dir string, formats []Format, opts ...Option) *Exporter {
	e := &Exporter{
		dir:     dir,
		formats: formats,
		prefix:  DefaultPrefix,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes one file per format named <prefix>_<YYYYMMDD_HHMMSS>.<ext>
// and returns the written paths. The output directory is created if missing.
func (e *Exporter) Export(ctx context.Context, profiles []*profile.Profile, ts time.Time) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	stamp := ts.Format("20060102_150405")
	var paths []string
	for _, f := range e.formats {
		path := filepath.Join(e.dir, fmt.Sprintf("%s_%s.%s", e.prefix, stamp, f))
		var err error
		switch f {
		case JSON:
			err = writeJSON(path, profiles)
		case CSV:
			err = writeCSV(path, profiles)
		case XLSX:
			err = writeXLSX(path, profiles)
		default:
			err = fmt.Errorf("unknown export format %q", f)
		}
		if err != nil {
			return paths, fmt.Errorf("export %s: %w", f, err)
		}
		e.logger.InfoContext(ctx, "exported results", "format", string(f), "path", path, "profiles", len(profiles))
		paths = append(paths, path)
	}
	return paths, nil
}

func writeJSON(path string, profiles []*profile.Profile) error {
	if profiles == nil {
		profiles = []*profile.Profile{}
	}
	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func writeCSV(path string, profiles []*profile.Profile) (err error) {
	f, err := os.Create(path) //nolint:gosec // path is built from configured output dir
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return err
	}
	for _, p := range profiles {
		if err := w.Write(row(p)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeXLSX(path string, profiles []*profile.Profile) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	if err := setRow(f, 1, Columns); err != nil {
		return err
	}
	for i, p := range profiles {
		if err := setRow(f, i+2, row(p)); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func setRow(f *excelize.File, rowNum int, values []string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func row(p *profile.Profile) []string {
	var discovered string
	if !p.DiscoveredAt.IsZero() {
		discovered = p.DiscoveredAt.Format(time.RFC3339)
	}
	return []string{
		p.Handle,
		p.Name,
		p.Bio,
		p.URL,
		strings.Join(p.MatchedKeywords, ", "),
		p.Subscribers,
		discovered,
	}
}
