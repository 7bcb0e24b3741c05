package introspect

var (
	NewMySQL     = newMySQL
	NewSQLServer = newSQLServer
	NewSQLite    = newSQLite
)
