package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

// DatabaseConfig configures the table adapter.
type DatabaseConfig struct {
	Timeout time.Duration
	// MaxRows caps the rows loaded from one table. Zero means no cap.
	MaxRows int
}

// Database loads one table (or collection) and renders it as a text table.
// DSNs starting with mongodb:// or mongodb+srv:// go to MongoDB. Paths and
// sqlite:// or file: DSNs are opened as SQLite databases.
type Database struct {
	timeout time.Duration
	maxRows int
}

func NewDatabase(cfg DatabaseConfig) *Database {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Database{timeout: cfg.Timeout, maxRows: cfg.MaxRows}
}

func (*Database) Kind() domain.SourceKind { return domain.SourceDatabase }
func (*Database) Required() []string      { return []string{"dsn", "table"} }

func (d *Database) Extract(ctx context.Context, params domain.Params) ([]domain.RawDocument, error) {
	dsn, table := params.Get("dsn"), params.Get("table")
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var (
		t   *textTable
		err error
	)
	if isMongoDSN(dsn) {
		t, err = d.loadCollection(ctx, dsn, table)
	} else {
		t, err = d.loadSQLiteTable(ctx, dsn, table)
	}
	if err != nil {
		return nil, err
	}
	return []domain.RawDocument{{
		Text:     t.String(),
		Metadata: meta("source", table, "rows", strconv.Itoa(len(t.rows))),
	}}, nil
}

func (d *Database) loadSQLiteTable(ctx context.Context, dsn, table string) (*textTable, error) {
	path, err := sqliteDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}

	var name string
	err = db.GetContext(ctx, &name,
		`SELECT name FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?`, table)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", domain.ErrTableNotFound, table)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}

	rows, err := db.QueryxContext(ctx, "SELECT * FROM "+quoteIdent(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	t := &textTable{columns: cols}
	for rows.Next() {
		if d.maxRows > 0 && len(t.rows) >= d.maxRows {
			break
		}
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatCell(v)
		}
		t.rows = append(t.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	return t, nil
}

var urlScheme = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9+.-]*)://`)

// sqliteDSN strips an optional sqlite:// scheme and opens plain paths
// read-only so a mistyped path is not created as an empty database.
// Other URL schemes (postgres://, mysql://, ...) are rejected.
func sqliteDSN(dsn string) (string, error) {
	dsn = strings.TrimPrefix(dsn, "sqlite://")
	if m := urlScheme.FindStringSubmatch(dsn); m != nil && !strings.EqualFold(m[1], "file") {
		return "", fmt.Errorf("unsupported database scheme %q: use a SQLite path or a mongodb:// URL", m[1])
	}
	if strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, "?") || dsn == ":memory:" {
		return dsn, nil
	}
	return "file:" + dsn + "?mode=ro", nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NaN"
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// textTable renders rows as aligned columns with a leading row number,
// like a dataframe print.
type textTable struct {
	columns []string
	rows    [][]string
}

func (t *textTable) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "\t%s\n", strings.Join(t.columns, "\t"))
	for i, row := range t.rows {
		fmt.Fprintf(w, "%d\t%s\n", i, strings.Join(row, "\t"))
	}
	_ = w.Flush()
	return strings.TrimRight(b.String(), "\n")
}
