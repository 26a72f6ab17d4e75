// Package mongo reads card rows from a MongoDB collection.
//
// Each document contributes one row. Fields are looked up by the card
// column names (name, photo, age, country, interest, net_worth); numbers
// and other scalars are formatted as strings, missing fields are empty.
package mongo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/cardstage/pkg/card"
	"github.com/matzehuels/cardstage/pkg/errors"
	"github.com/matzehuels/cardstage/pkg/source"
)

const connectTimeout = 10 * time.Second

// Config locates the collection.
type Config struct {
	URI        string
	Database   string
	Collection string
	Limit      int64 // 0 reads every document
}

// Source reads documents from a collection, ordered by _id.
type Source struct {
	cfg    Config
	client *mongo.Client
	owned  bool
}

// New connects to cfg.URI. Close releases the connection.
func New(ctx context.Context, cfg Config) (*Source, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to MongoDB")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping MongoDB")
	}
	return &Source{cfg: cfg, client: client, owned: true}, nil
}

// NewFromClient reads through an existing client, which the caller closes.
func NewFromClient(client *mongo.Client, cfg Config) (*Source, error) {
	cfg.URI = "-"
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return &Source{cfg: cfg, client: client}, nil
}

func validate(cfg Config) error {
	if cfg.URI == "" {
		return errors.New(errors.ErrCodeInvalidSource, "MongoDB URI cannot be empty")
	}
	if err := errors.ValidateCollectionName(cfg.Database); err != nil {
		return err
	}
	return errors.ValidateCollectionName(cfg.Collection)
}

// Name returns "mongo".
func (s *Source) Name() string { return "mongo" }

// FetchRows reads the collection.
func (s *Source) FetchRows(ctx context.Context) ([][]string, error) {
	coll := s.client.Database(s.cfg.Database).Collection(s.cfg.Collection)

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if s.cfg.Limit > 0 {
		opts.SetLimit(s.cfg.Limit)
	}

	cur, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s.%s: %w", s.cfg.Database, s.cfg.Collection, err)
	}
	defer cur.Close(ctx)

	var rows [][]string
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		rows = append(rows, DocumentRow(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("read cursor: %w", err)
	}
	return rows, nil
}

// Close disconnects the client if New created it.
func (s *Source) Close(ctx context.Context) error {
	if !s.owned {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// DocumentRow maps a document onto the card columns.
func DocumentRow(doc bson.M) []string {
	row := make([]string, card.NumColumns)
	for i, name := range card.Columns {
		row[i] = scalar(doc[name])
	}
	return row
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case primitive.Decimal128:
		return x.String()
	case primitive.ObjectID:
		return x.Hex()
	default:
		return fmt.Sprint(x)
	}
}

var _ source.Source = (*Source)(nil)
