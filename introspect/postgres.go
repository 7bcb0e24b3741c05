package introspect

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresDefaultSchema = "public"

var postgresCatalog = catalog{
	tables: `
		SELECT c.relname
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1
		  AND c.relkind IN ('r', 'p')`,
	columns: `
		SELECT c.relname, a.attname, format_type(a.atttypid, a.atttypmod), a.attnum
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1
		  AND c.relkind IN ('r', 'p')
		  AND a.attnum > 0
		  AND NOT a.attisdropped`,
	foreignKeys: `
		SELECT c.relname, con.conname, a.attname, rc.relname, k.ord::int
		FROM pg_constraint con
		JOIN pg_class c ON c.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		JOIN pg_class rc ON rc.oid = con.confrelid
		CROSS JOIN LATERAL unnest(con.conkey) WITH ORDINALITY AS k(attnum, ord)
		JOIN pg_attribute a ON a.attrelid = con.conrelid AND a.attnum = k.attnum
		WHERE con.contype = 'f'
		  AND n.nspname = $1`,
	// Expression columns have attnum 0 and come back as NULL.
	indexes: `
		SELECT c.relname, ic.relname, i.indisunique, a.attname, k.ord::int
		FROM pg_index i
		JOIN pg_class c ON c.oid = i.indrelid
		JOIN pg_class ic ON ic.oid = i.indexrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		CROSS JOIN LATERAL unnest(i.indkey::int2[]) WITH ORDINALITY AS k(attnum, ord)
		LEFT JOIN pg_attribute a ON a.attrelid = i.indrelid AND a.attnum = k.attnum
		WHERE n.nspname = $1
		  AND k.ord <= i.indnkeyatts`,
}

// pgxQuerier runs catalog queries on a pgx pool.
type pgxQuerier struct {
	pool   *pgxpool.Pool
	schema string
}

func (q pgxQuerier) query(ctx context.Context, query string, each func(scanner) error) error {
	rows, err := q.pool.Query(ctx, query, q.schema)
	if err != nil {
		return err //nolint:wrapcheck // wrapped by collect
	}
	defer rows.Close()

	for rows.Next() {
		if err := each(rows); err != nil {
			return err
		}
	}
	return rows.Err() //nolint:wrapcheck // wrapped by collect
}

func init() {
	Register("postgres", func(ctx context.Context, opts Options) (Introspector, error) {
		pool, err := pgxpool.New(ctx, opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return &catalogIntrospector{
			driver:  "postgres",
			q:       pgxQuerier{pool: pool, schema: schemaOr(opts, postgresDefaultSchema)},
			catalog: postgresCatalog,
			close: func() error {
				pool.Close()
				return nil
			},
			logger: loggerOf(opts),
		}, nil
	})
}
