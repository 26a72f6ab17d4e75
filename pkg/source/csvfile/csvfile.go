// Package csvfile reads card rows from a local CSV or TSV file.
package csvfile

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/cardstage/pkg/errors"
	"github.com/matzehuels/cardstage/pkg/source"
)

// Source reads a delimited file.
type Source struct {
	path       string
	skipHeader bool
	comma      rune
}

// Option configures a Source.
type Option func(*Source)

// WithSkipHeader drops the first record.
func WithSkipHeader(skip bool) Option {
	return func(s *Source) { s.skipHeader = skip }
}

// WithDelimiter sets the field delimiter. By default ".tsv" files use a
// tab and everything else a comma.
func WithDelimiter(r rune) Option {
	return func(s *Source) { s.comma = r }
}

// New creates a file source for path.
func New(path string, opts ...Option) (*Source, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "CSV path cannot be empty")
	}
	s := &Source{path: path, comma: ','}
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		s.comma = '\t'
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name returns "csv".
func (s *Source) Name() string { return "csv" }

// Path returns the file being read.
func (s *Source) Path() string { return s.path }

// FetchRows reads every record. Blank lines are skipped.
func (s *Source) FetchRows(ctx context.Context) ([][]string, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", s.path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRows(f, s.comma, s.skipHeader)
}

// ReadRows parses delimited records from r. Records may have any number of
// fields; rows whose fields are all empty are dropped.
func ReadRows(r io.Reader, comma rune, skipHeader bool) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows [][]string
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse CSV")
		}
		if first && skipHeader {
			first = false
			continue
		}
		first = false
		if blank(rec) {
			continue
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

var _ source.Source = (*Source)(nil)
