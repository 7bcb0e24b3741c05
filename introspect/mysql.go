package introspect

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver for database/sql
)

// The schema argument falls back to the connection's current database.
const mysqlSchema = `COALESCE(NULLIF(?, ''), DATABASE())`

var mysqlCatalog = catalog{
	tables: `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ` + mysqlSchema + `
		  AND table_type = 'BASE TABLE'`,
	columns: `
		SELECT table_name, column_name, data_type, ordinal_position
		FROM information_schema.columns
		WHERE table_schema = ` + mysqlSchema,
	foreignKeys: `
		SELECT table_name, constraint_name, column_name, referenced_table_name, ordinal_position
		FROM information_schema.key_column_usage
		WHERE table_schema = ` + mysqlSchema + `
		  AND referenced_table_name IS NOT NULL`,
	indexes: `
		SELECT table_name, index_name, non_unique = 0, column_name, seq_in_index
		FROM information_schema.statistics
		WHERE table_schema = ` + mysqlSchema,
}

func init() {
	Register("mysql", func(ctx context.Context, opts Options) (Introspector, error) {
		db, err := sql.Open("mysql", opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect to mysql: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping mysql: %w", err)
		}
		return newMySQL(db, opts), nil
	})
}

func newMySQL(db *sql.DB, opts Options) Introspector {
	return &catalogIntrospector{
		driver:  "mysql",
		q:       sqlQuerier{db: db, args: []any{opts.Schema}},
		catalog: mysqlCatalog,
		close:   db.Close,
		logger:  loggerOf(opts),
	}
}
