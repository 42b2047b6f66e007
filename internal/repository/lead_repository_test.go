package repository

import (
	"context"
	"database/sql"
	"testing"

	"travelops/internal/scope"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *LeadRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, mock, NewLeadRepository(gdb)
}

func leadRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "company_id", "name", "status", "assigned_to", "created_by"})
}

func TestList_CompanyPredicate(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT \* FROM "leads" WHERE company_id = \$1`).
		WithArgs(uint(7)).
		WillReturnRows(leadRows().
			AddRow(1, 7, "Bali honeymoon", "new", 5, 5).
			AddRow(2, 7, "Kerala backwaters", "contacted", 8, 5))

	leads, err := repo.List(context.Background(), scope.Predicate{
		Kind:      scope.PredicateCompany,
		CompanyID: 7,
	})
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, uint(7), leads[0].CompanyID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_OwnersPredicateConstrainsAssignee(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT \* FROM "leads" WHERE company_id = \$1 AND assigned_to IN \(\$2,\$3\)`).
		WithArgs(uint(7), uint(5), uint(8)).
		WillReturnRows(leadRows().AddRow(1, 7, "Bali honeymoon", "new", 5, 5))

	leads, err := repo.List(context.Background(), scope.Predicate{
		Kind:      scope.PredicateOwners,
		CompanyID: 7,
		OwnerIDs:  []uint{5, 8},
	})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_OwnerOrCreatorPredicate(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT \* FROM "leads" WHERE company_id = \$1 AND \(assigned_to = \$2 OR created_by = \$3\)`).
		WithArgs(uint(7), uint(5), uint(5)).
		WillReturnRows(leadRows().AddRow(3, 7, "Ladakh circuit", "new", 5, 2))

	leads, err := repo.List(context.Background(), scope.Predicate{
		Kind:      scope.PredicateOwnerOrCreator,
		CompanyID: 7,
		UserID:    5,
	})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_NonePredicateMatchesNothing(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT \* FROM "leads" WHERE 1 = 0`).
		WillReturnRows(leadRows())

	leads, err := repo.List(context.Background(), scope.Predicate{Kind: scope.PredicateNone})
	require.NoError(t, err)
	assert.Empty(t, leads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_OutsidePredicateIsNotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT \* FROM "leads" WHERE company_id = \$1 AND leads\.id = \$2 AND "leads"\."deleted_at" IS NULL ORDER BY "leads"\."id" LIMIT \$3`).
		WithArgs(uint(7), uint(42), 1).
		WillReturnRows(leadRows())

	lead, err := repo.FindByID(context.Background(), scope.Predicate{
		Kind:      scope.PredicateCompany,
		CompanyID: 7,
	}, 42)
	require.NoError(t, err)
	assert.Nil(t, lead)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_ReportsAffectedRows(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "leads" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	affected, err := repo.UpdateStatus(context.Background(), scope.Predicate{
		Kind:      scope.PredicateCompany,
		CompanyID: 7,
	}, 42, "converted")
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
