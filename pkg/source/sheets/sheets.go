// Package sheets reads card rows from a Google Sheets range.
package sheets

import (
	"context"

	"github.com/matzehuels/cardstage/pkg/errors"
	"github.com/matzehuels/cardstage/pkg/integrations/google"
	"github.com/matzehuels/cardstage/pkg/source"
)

// Source reads one A1 range of a spreadsheet.
type Source struct {
	client        *google.SheetsClient
	spreadsheetID string
	rng           string
	refresh       bool
}

// New creates a Sheets source. An empty range selects
// [google.DefaultRange]. If refresh is true, cached rows are bypassed.
func New(client *google.SheetsClient, spreadsheetID, rng string, refresh bool) (*Source, error) {
	if err := errors.ValidateSpreadsheetID(spreadsheetID); err != nil {
		return nil, err
	}
	if rng == "" {
		rng = google.DefaultRange
	}
	if err := errors.ValidateRange(rng); err != nil {
		return nil, err
	}
	return &Source{client: client, spreadsheetID: spreadsheetID, rng: rng, refresh: refresh}, nil
}

// Name returns "sheets".
func (s *Source) Name() string { return "sheets" }

// Range returns the A1 range being read.
func (s *Source) Range() string { return s.rng }

// SpreadsheetID returns the spreadsheet being read.
func (s *Source) SpreadsheetID() string { return s.spreadsheetID }

// FetchRows calls spreadsheets.values.get.
func (s *Source) FetchRows(ctx context.Context) ([][]string, error) {
	vr, err := s.client.Values(ctx, s.spreadsheetID, s.rng, s.refresh)
	if err != nil {
		return nil, err
	}
	return vr.Values, nil
}

var _ source.Source = (*Source)(nil)
