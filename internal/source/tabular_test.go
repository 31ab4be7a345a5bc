package source

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

func sqliteFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.db")
	db, err := sqlx.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	db.MustExec(`CREATE TABLE items (id INTEGER, name TEXT, price REAL)`)
	db.MustExec(`INSERT INTO items VALUES (1, 'apple', 0.5), (2, 'pear', NULL)`)
	return path
}

func TestDatabaseSQLite(t *testing.T) {
	path := sqliteFixture(t)

	docs, err := NewDatabase(DatabaseConfig{}).Extract(context.Background(), domain.Params{"dsn": "sqlite://" + path, "table": "items"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "   id  name   price\n0  1   apple  0.5\n1  2   pear   NaN", docs[0].Text)
	assert.Equal(t, "items", docs[0].Metadata["source"])
	assert.Equal(t, "2", docs[0].Metadata["rows"])
}

func TestDatabaseMaxRows(t *testing.T) {
	path := sqliteFixture(t)

	docs, err := NewDatabase(DatabaseConfig{MaxRows: 1}).Extract(context.Background(), domain.Params{"dsn": path, "table": "items"})
	require.NoError(t, err)
	assert.Equal(t, "1", docs[0].Metadata["rows"])
}

func TestDatabaseTableNotFound(t *testing.T) {
	path := sqliteFixture(t)

	for _, table := range []string{"orders", `items"; DROP TABLE items; --`} {
		_, err := NewDatabase(DatabaseConfig{}).Extract(context.Background(), domain.Params{"dsn": path, "table": table})
		assert.ErrorIs(t, err, domain.ErrTableNotFound, table)
	}
}

func TestDatabaseMissingFileIsConnectionError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	_, err := NewDatabase(DatabaseConfig{}).Extract(context.Background(), domain.Params{"dsn": path, "table": "items"})
	assert.ErrorIs(t, err, domain.ErrConnection)
	assert.NoFileExists(t, path)
}

func TestDatabaseUnsupportedSchemeIsConnectionError(t *testing.T) {
	for _, dsn := range []string{"postgres://u:p@localhost:5432/shop", "mysql://localhost/shop"} {
		_, err := NewDatabase(DatabaseConfig{}).Extract(context.Background(), domain.Params{"dsn": dsn, "table": "items"})
		require.ErrorIs(t, err, domain.ErrConnection, dsn)
		assert.Contains(t, err.Error(), "unsupported database scheme", dsn)
	}
}

func TestSQLiteDSN(t *testing.T) {
	got, err := sqliteDSN("sqlite:///data/shop.db")
	require.NoError(t, err)
	assert.Equal(t, "file:/data/shop.db?mode=ro", got)

	got, err = sqliteDSN("file:///data/shop.db?mode=ro")
	require.NoError(t, err)
	assert.Equal(t, "file:///data/shop.db?mode=ro", got)

	got, err = sqliteDSN(":memory:")
	require.NoError(t, err)
	assert.Equal(t, ":memory:", got)
}

func TestMongoDSN(t *testing.T) {
	assert.True(t, isMongoDSN("mongodb://localhost:27017/shop"))
	assert.True(t, isMongoDSN("mongodb+srv://cluster.example.net/shop"))
	assert.False(t, isMongoDSN("sqlite://shop.db"))

	name, err := mongoDatabase("mongodb://u:p@localhost:27017/shop?authSource=admin")
	require.NoError(t, err)
	assert.Equal(t, "shop", name)

	_, err = mongoDatabase("mongodb://localhost:27017")
	assert.Error(t, err)
}

func TestMongoUnreachableIsConnectionError(t *testing.T) {
	d := NewDatabase(DatabaseConfig{Timeout: 300 * time.Millisecond})
	_, err := d.Extract(context.Background(), domain.Params{"dsn": "mongodb://127.0.0.1:1/shop", "table": "items"})
	assert.ErrorIs(t, err, domain.ErrConnection)
}

func TestDocumentsTable(t *testing.T) {
	docs := []bson.D{
		{{Key: "name", Value: "apple"}, {Key: "qty", Value: int32(3)}},
		{{Key: "name", Value: "pear"}, {Key: "origin", Value: bson.D{{Key: "country", Value: "NO"}}}},
	}
	tbl := documentsTable(docs)
	assert.Equal(t, []string{"name", "qty", "origin"}, tbl.columns)
	assert.Equal(t, []string{"apple", "3", "NaN"}, tbl.rows[0])
	assert.Equal(t, []string{"pear", "NaN", `{"country":"NO"}`}, tbl.rows[1])
}
