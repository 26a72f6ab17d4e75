// Package source loads card rows from tabular data sources.
//
// A [Source] returns rows of strings in the six-column card order (see
// [card.Columns]). [Load] turns them into cards and maps failures onto
// coded errors:
//
//   - a fetch failure becomes [errors.ErrCodeDataFetch] carrying the
//     provider's message
//   - an empty result becomes [errors.ErrCodeNoData] with [NoDataMessage]
//
// Implementations live in subpackages: sheets (Google Sheets), csvfile
// (local CSV/TSV files) and mongo (a MongoDB collection). [Static] serves
// fixed rows.
package source

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/cardstage/pkg/card"
	"github.com/matzehuels/cardstage/pkg/errors"
	"github.com/matzehuels/cardstage/pkg/integrations"
	"github.com/matzehuels/cardstage/pkg/observability"
)

// NoDataMessage is reported when a source yields no rows.
const NoDataMessage = "No data found. Check your Sheet Name ('Data_Template') and Range ('A2:F')."

// Source yields card rows.
type Source interface {
	// Name identifies the source kind in logs and errors, e.g. "sheets".
	Name() string

	// FetchRows returns the raw rows in column order.
	FetchRows(ctx context.Context) ([][]string, error)
}

// Static is a Source over fixed rows.
type Static [][]string

// Name returns "static".
func (Static) Name() string { return "static" }

// FetchRows returns the rows unchanged.
func (s Static) FetchRows(context.Context) ([][]string, error) { return s, nil }

// LoadRows fetches rows from src, reporting progress to the pipeline hooks.
func LoadRows(ctx context.Context, src Source) ([][]string, error) {
	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, src.Name())
	start := time.Now()

	rows, err := src.FetchRows(ctx)
	if err != nil {
		err = fetchError(src, err)
	} else if len(rows) == 0 {
		err = errors.New(errors.ErrCodeNoData, "%s", NoDataMessage)
	}

	hooks.OnFetchComplete(ctx, src.Name(), len(rows), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Load fetches rows from src and converts them to cards.
func Load(ctx context.Context, src Source) ([]card.Card, error) {
	rows, err := LoadRows(ctx, src)
	if err != nil {
		return nil, err
	}
	return card.FromRows(rows), nil
}

func fetchError(src Source, err error) error {
	// Already classified by the source (bad path, bad range, ...).
	if errors.GetCode(err) != "" {
		return err
	}

	msg := err.Error()
	var apiErr *integrations.APIError
	if stderrors.As(err, &apiErr) {
		msg = apiErr.Message
	}

	code := errors.ErrCodeDataFetch
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		code = errors.ErrCodeTimeout
	case stderrors.Is(err, integrations.ErrUnauthorized):
		code = errors.ErrCodeUnauthorized
	case stderrors.Is(err, integrations.ErrNotFound):
		code = errors.ErrCodeNotFound
	}
	return errors.Wrap(code, err, "Error loading %s data: %s", src.Name(), msg)
}
