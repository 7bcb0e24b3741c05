package orm

import (
	"fmt"
	"strings"
)

// Dialect abstracts SQL differences between database engines.
type Dialect interface {
	// Placeholder returns the bind parameter placeholder for the given
	// 1-based index. MySQL and SQLite return "?" regardless of index;
	// PostgreSQL returns "$1", "$2", etc.
	Placeholder(index int) string

	// QuoteIdent quotes an identifier (table name, column name) to safely
	// handle SQL reserved words.
	QuoteIdent(name string) string

	// Paginate renders the LIMIT / OFFSET part of a SELECT. ordered
	// reports whether the statement already has an ORDER BY.
	Paginate(limit, offset *int, ordered bool) string
}

// MySQL is the Dialect for MySQL / MariaDB.
var MySQL Dialect = mysqlDialect{}

// PostgreSQL is the Dialect for PostgreSQL.
var PostgreSQL Dialect = postgresDialect{}

// SQLite is the Dialect for SQLite.
var SQLite Dialect = sqliteDialect{}

// SQLServer is the Dialect for Microsoft SQL Server.
var SQLServer Dialect = sqlserverDialect{}

// DialectFor returns the Dialect for a database/sql driver name.
func DialectFor(driver string) (Dialect, bool) {
	switch driver {
	case "mysql":
		return MySQL, true
	case "postgres", "pgx":
		return PostgreSQL, true
	case "sqlite", "sqlite3":
		return SQLite, true
	case "sqlserver", "mssql":
		return SQLServer, true
	default:
		return nil, false
	}
}

type mysqlDialect struct{}

func (mysqlDialect) Placeholder(_ int) string      { return "?" }
func (mysqlDialect) QuoteIdent(name string) string { return "`" + name + "`" }
func (mysqlDialect) Paginate(limit, offset *int, _ bool) string {
	return limitOffset(limit, offset)
}

type postgresDialect struct{}

func (postgresDialect) Placeholder(index int) string  { return fmt.Sprintf("$%d", index) }
func (postgresDialect) QuoteIdent(name string) string { return `"` + name + `"` }
func (postgresDialect) Paginate(limit, offset *int, _ bool) string {
	return limitOffset(limit, offset)
}

type sqliteDialect struct{}

func (sqliteDialect) Placeholder(_ int) string      { return "?" }
func (sqliteDialect) QuoteIdent(name string) string { return `"` + name + `"` }
func (sqliteDialect) Paginate(limit, offset *int, _ bool) string {
	if limit == nil && offset != nil {
		// SQLite only accepts OFFSET after a LIMIT.
		return fmt.Sprintf(" LIMIT -1 OFFSET %d", *offset)
	}
	return limitOffset(limit, offset)
}

type sqlserverDialect struct{}

func (sqlserverDialect) Placeholder(index int) string { return fmt.Sprintf("@p%d", index) }

func (sqlserverDialect) QuoteIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (sqlserverDialect) Paginate(limit, offset *int, ordered bool) string {
	if limit == nil && offset == nil {
		return ""
	}
	var b strings.Builder
	if !ordered {
		b.WriteString(" ORDER BY (SELECT NULL)")
	}
	n := 0
	if offset != nil {
		n = *offset
	}
	fmt.Fprintf(&b, " OFFSET %d ROWS", n)
	if limit != nil {
		fmt.Fprintf(&b, " FETCH NEXT %d ROWS ONLY", *limit)
	}
	return b.String()
}

func limitOffset(limit, offset *int) string {
	var b strings.Builder
	if limit != nil {
		fmt.Fprintf(&b, " LIMIT %d", *limit)
	}
	if offset != nil {
		fmt.Fprintf(&b, " OFFSET %d", *offset)
	}
	return b.String()
}

// rewritePlaceholders converts ? to dialect-specific placeholders ($1, @p1, …).
func rewritePlaceholders(d Dialect, query string) string {
	if d.Placeholder(1) == "?" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query))
	idx := 1
	for i := range len(query) {
		if query[i] == '?' {
			b.WriteString(d.Placeholder(idx))
			idx++
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}
