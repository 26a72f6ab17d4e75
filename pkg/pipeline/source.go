package pipeline

import (
	"context"

	"github.com/matzehuels/cardstage/pkg/errors"
	"github.com/matzehuels/cardstage/pkg/integrations/google"
	"github.com/matzehuels/cardstage/pkg/source"
	"github.com/matzehuels/cardstage/pkg/source/csvfile"
	"github.com/matzehuels/cardstage/pkg/source/mongo"
	"github.com/matzehuels/cardstage/pkg/source/sheets"
)

// OpenSource builds the row source selected by opts. The returned close
// function is never nil and must be called once the rows are read.
func OpenSource(ctx context.Context, opts Options) (source.Source, func(), error) {
	if err := opts.ValidateForFetch(); err != nil {
		return nil, nil, err
	}
	noop := func() {}

	switch opts.Source {
	case SourceCSV:
		src, err := csvfile.New(opts.CSVPath, csvfile.WithSkipHeader(opts.SkipHeader))
		if err != nil {
			return nil, nil, err
		}
		return src, noop, nil

	case SourceMongo:
		src, err := mongo.New(ctx, mongo.Config{
			URI:        opts.MongoURI,
			Database:   opts.MongoDatabase,
			Collection: opts.MongoColl,
		})
		if err != nil {
			return nil, nil, err
		}
		return src, func() {
			if err := src.Close(context.WithoutCancel(ctx)); err != nil {
				opts.Logger.Warn("close mongo source", "error", err)
			}
		}, nil

	case SourceStatic:
		return source.Static(opts.Rows), noop, nil

	default:
		if opts.HTTPClient == nil && opts.APIKey == "" {
			return nil, nil, errors.New(errors.ErrCodeUnauthorized,
				"reading a spreadsheet requires signing in (cardstage auth login) or an API key")
		}
		var sheetOpts []google.SheetsOption
		if opts.HTTPClient != nil {
			sheetOpts = append(sheetOpts, google.WithHTTPClient(opts.HTTPClient))
		}
		if opts.APIKey != "" {
			sheetOpts = append(sheetOpts, google.WithAPIKey(opts.APIKey))
		}
		src, err := sheets.New(google.NewSheetsClient(sheetOpts...), opts.SpreadsheetID, opts.Range, opts.Refresh)
		if err != nil {
			return nil, nil, err
		}
		return src, noop, nil
	}
}
