package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

func isMongoDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://")
}

// mongoDatabase returns the database named in the URI path.
func mongoDatabase(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return "", fmt.Errorf("no database in %s://%s", u.Scheme, u.Host)
	}
	return name, nil
}

func (d *Database) loadCollection(ctx context.Context, dsn, collection string) (*textTable, error) {
	dbName, err := mongoDatabase(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	client, err := mongo.Connect(options.Client().ApplyURI(dsn).SetServerSelectionTimeout(d.timeout))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}

	db := client.Database(dbName)
	names, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: collection}})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrTableNotFound, collection)
	}

	opts := options.Find()
	if d.maxRows > 0 {
		opts.SetLimit(int64(d.maxRows))
	}
	cur, err := db.Collection(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	var docs []bson.D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	return documentsTable(docs), nil
}

// documentsTable uses the union of field names, in first-seen order, as columns.
func documentsTable(docs []bson.D) *textTable {
	t := &textTable{}
	pos := map[string]int{}
	for _, doc := range docs {
		for _, e := range doc {
			if _, ok := pos[e.Key]; !ok {
				pos[e.Key] = len(t.columns)
				t.columns = append(t.columns, e.Key)
			}
		}
	}
	for _, doc := range docs {
		row := make([]string, len(t.columns))
		for i := range row {
			row[i] = "NaN"
		}
		for _, e := range doc {
			row[pos[e.Key]] = formatBSON(e.Value)
		}
		t.rows = append(t.rows, row)
	}
	return t
}

func formatBSON(v any) string {
	switch x := v.(type) {
	case bson.ObjectID:
		return x.Hex()
	case bson.D:
		if b, err := bson.MarshalExtJSON(x, false, false); err == nil {
			return string(b)
		}
	}
	return formatCell(v)
}
