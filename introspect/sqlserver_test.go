package introspect_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/ormassoc/introspect"
)

func TestSQLServerIntrospect(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery(`FROM sys.tables t`).
		WithArgs("dbo").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("users").AddRow("profiles"))
	mock.ExpectQuery(`FROM sys.columns c`).
		WithArgs("dbo").
		WillReturnRows(sqlmock.NewRows([]string{"table", "name", "type", "column_id"}).
			AddRow("profiles", "id", "int", 1).
			AddRow("profiles", "user_id", "int", 2).
			AddRow("users", "id", "int", 1))
	mock.ExpectQuery(`FROM sys.foreign_keys fk`).
		WithArgs("dbo").
		WillReturnRows(sqlmock.NewRows([]string{"table", "name", "column", "referenced", "ordinal"}).
			AddRow("profiles", "FK_profiles_users", "user_id", "users", 1))
	mock.ExpectQuery(`FROM sys.indexes i`).
		WithArgs("dbo").
		WillReturnRows(sqlmock.NewRows([]string{"table", "name", "is_unique", "column", "key_ordinal"}).
			AddRow("profiles", "UQ_profiles_user_id", true, "user_id", 1))

	s, err := introspect.NewSQLServer(db, introspect.Options{}).Introspect(t.Context())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []string{"profiles", "users"}, s.TableNames())
	fks := s.ReverseForeignKeys("users")
	require.Len(t, fks, 1)
	assert.Equal(t, "profiles", fks[0].Table)
	assert.Equal(t, []string{"user_id"}, fks[0].Columns)

	indexes := s.Indexes("profiles")
	require.Len(t, indexes, 1)
	assert.True(t, indexes[0].Unique)
}

func TestSQLServerIntrospectSchemaOption(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery(`FROM sys.tables t`).
		WithArgs("sales").
		WillReturnError(assert.AnError)

	_, err = introspect.NewSQLServer(db, introspect.Options{Schema: "sales"}).Introspect(t.Context())
	require.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "query tables")
	assert.NoError(t, mock.ExpectationsWereMet())
}
