package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type note struct {
	ID   uint `gorm:"primarykey"`
	Body string
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(&note{}))
	return gdb
}

func TestContainsFold(t *testing.T) {
	gdb := setupDB(t)
	require.NoError(t, gdb.Create(&[]note{{Body: "Gas Stove repair"}, {Body: "dishwasher"}, {Body: "100% done"}}).Error)

	var got []note
	require.NoError(t, gdb.Scopes(ContainsFold("STOVE", "body")).Find(&got).Error)
	require.Len(t, got, 1)
	assert.Equal(t, "Gas Stove repair", got[0].Body)

	got = nil
	require.NoError(t, gdb.Scopes(ContainsFold("%", "body")).Find(&got).Error)
	require.Len(t, got, 1)
	assert.Equal(t, "100% done", got[0].Body)

	got = nil
	require.NoError(t, gdb.Scopes(ContainsFold("  ", "body")).Find(&got).Error)
	assert.Len(t, got, 3)
}

func TestContainsFold_EscapesWildcards(t *testing.T) {
	gdb := setupDB(t)
	require.NoError(t, gdb.Create(&[]note{{Body: "a_b"}, {Body: "axb"}, {Body: "wow!"}, {Body: "wow"}}).Error)

	var got []note
	require.NoError(t, gdb.Scopes(ContainsFold("a_b", "body")).Find(&got).Error)
	require.Len(t, got, 1)
	assert.Equal(t, "a_b", got[0].Body)

	got = nil
	require.NoError(t, gdb.Scopes(ContainsFold("wow!", "body")).Find(&got).Error)
	require.Len(t, got, 1)
	assert.Equal(t, "wow!", got[0].Body)
}

func TestContainsFold_MySQLStatement(t *testing.T) {
	gdb, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/desk?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	stmt := gdb.Scopes(ContainsFold("50%_off", "name", "description")).Find(&[]note{}).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, "LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'")
	assert.NotContains(t, sql, `\`)
	require.Len(t, stmt.Vars, 2)
	assert.Equal(t, "%50!%!_off%", stmt.Vars[0])
}

func TestPaginate(t *testing.T) {
	gdb := setupDB(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, gdb.Create(&note{Body: "n"}).Error)
	}

	var got []note
	require.NoError(t, gdb.Order("id").Scopes(Paginate(2, 2)).Find(&got).Error)
	require.Len(t, got, 2)
	assert.Equal(t, uint(3), got[0].ID)
}

func TestRunInTransaction_RollbackOnError(t *testing.T) {
	gdb := setupDB(t)
	tm := NewTransactionManager(gdb)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, GetTxFromContext(ctx, gdb).Create(&note{Body: "tx"}).Error)
		return errors.New("boom")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, gdb.Model(&note{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRunInTransaction_Commit(t *testing.T) {
	gdb := setupDB(t)
	tm := NewTransactionManager(gdb)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		return tm.RunInTransaction(ctx, func(inner context.Context) error {
			return GetTxFromContext(inner, gdb).Create(&note{Body: "nested"}).Error
		})
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, gdb.Model(&note{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
