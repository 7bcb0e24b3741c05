package introspect

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb" // SQL Server driver for database/sql
)

const sqlserverDefaultSchema = "dbo"

var sqlserverCatalog = catalog{
	tables: `
		SELECT t.name
		FROM sys.tables t
		WHERE SCHEMA_NAME(t.schema_id) = @p1
		  AND t.is_ms_shipped = 0`,
	columns: `
		SELECT t.name, c.name, tp.name, c.column_id
		FROM sys.columns c
		INNER JOIN sys.tables t ON c.object_id = t.object_id
		INNER JOIN sys.types tp ON c.user_type_id = tp.user_type_id
		WHERE SCHEMA_NAME(t.schema_id) = @p1`,
	foreignKeys: `
		SELECT
		    OBJECT_NAME(fk.parent_object_id),
		    fk.name,
		    COL_NAME(fkc.parent_object_id, fkc.parent_column_id),
		    OBJECT_NAME(fk.referenced_object_id),
		    fkc.constraint_column_id
		FROM sys.foreign_keys fk
		INNER JOIN sys.foreign_key_columns fkc ON fk.object_id = fkc.constraint_object_id
		WHERE SCHEMA_NAME(fk.schema_id) = @p1
		  AND fk.is_ms_shipped = 0`,
	indexes: `
		SELECT t.name, i.name, i.is_unique, COL_NAME(ic.object_id, ic.column_id), ic.key_ordinal
		FROM sys.indexes i
		INNER JOIN sys.index_columns ic ON i.object_id = ic.object_id AND i.index_id = ic.index_id
		INNER JOIN sys.tables t ON i.object_id = t.object_id
		WHERE SCHEMA_NAME(t.schema_id) = @p1
		  AND i.name IS NOT NULL
		  AND ic.is_included_column = 0`,
}

func init() {
	Register("sqlserver", func(ctx context.Context, opts Options) (Introspector, error) {
		db, err := sql.Open("sqlserver", opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect to sqlserver: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping sqlserver: %w", err)
		}
		return newSQLServer(db, opts), nil
	})
}

func newSQLServer(db *sql.DB, opts Options) Introspector {
	return &catalogIntrospector{
		driver:  "sqlserver",
		q:       sqlQuerier{db: db, args: []any{schemaOr(opts, sqlserverDefaultSchema)}},
		catalog: sqlserverCatalog,
		close:   db.Close,
		logger:  loggerOf(opts),
	}
}
