package introspect

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

// userTables lists the user tables of the main database; the pragma
// table-valued functions are joined against it.
const userTables = `
		FROM sqlite_master m`

const userTablesFilter = `
		WHERE m.type = 'table'
		  AND m.name NOT LIKE 'sqlite\_%' ESCAPE '\'`

var sqliteCatalog = catalog{
	tables: `
		SELECT m.name` + userTables + userTablesFilter,
	columns: `
		SELECT m.name, p.name, p.type, p.cid` + userTables + `
		JOIN pragma_table_info(m.name) p` + userTablesFilter,
	foreignKeys: `
		SELECT m.name, 'fk_' || m.name || '_' || f.id, f."from", f."table", f.seq` + userTables + `
		JOIN pragma_foreign_key_list(m.name) f` + userTablesFilter,
	indexes: `
		SELECT m.name, il.name, il."unique", ii.name, ii.seqno` + userTables + `
		JOIN pragma_index_list(m.name) il
		JOIN pragma_index_info(il.name) ii` + userTablesFilter,
}

func init() {
	Register("sqlite", func(ctx context.Context, opts Options) (Introspector, error) {
		db, err := sql.Open("sqlite", opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping sqlite: %w", err)
		}
		return newSQLite(db, opts), nil
	})
}

func newSQLite(db *sql.DB, opts Options) Introspector {
	return &catalogIntrospector{
		driver:  "sqlite",
		q:       sqlQuerier{db: db},
		catalog: sqliteCatalog,
		close:   db.Close,
		logger:  loggerOf(opts),
	}
}
