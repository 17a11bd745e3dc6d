package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type counter struct {
	ID    uint `gorm:"primaryKey"`
	Value int
}

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Connect(Config{
		Driver:   DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "nested", "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(&counter{}))
	return db
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect(Config{Driver: "oracle"})
	assert.Error(t, err)
}

func TestConnectRequiresURLForServerDrivers(t *testing.T) {
	_, err := Connect(Config{Driver: DriverPostgres})
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestWriteTxCommits(t *testing.T) {
	db := openTestDB(t)

	err := db.WriteTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&counter{Value: 1}).Error
	})
	require.NoError(t, err)

	var n int64
	db.Model(&counter{}).Count(&n)
	assert.EqualValues(t, 1, n)
}

func TestWriteTxRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	boom := errors.New("boom")

	err := db.WriteTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&counter{Value: 1}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int64
	db.Model(&counter{}).Count(&n)
	assert.Zero(t, n)
}

func TestSQLXSharesConnection(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&counter{Value: 7}).Error)

	var total int
	err := db.SQLX().Get(&total, db.SQLX().Rebind("SELECT COALESCE(SUM(value), 0) FROM counters WHERE value > ?"), 0)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Equal(t, DriverSQLite, db.Driver())
}
