package main

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--driver", "sqlite", "--db", dbPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCreateUserAndResetPassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pos.db")

	out, err := run(t, dbPath, "create-user", "--email", "Till@pos.local", "--password", "till123", "--name", "Till")
	require.NoError(t, err)
	assert.Contains(t, out, "Created cashier user till@pos.local")

	_, err = run(t, dbPath, "create-user", "--email", "till@pos.local", "--password", "till123", "--name", "Again")
	assert.Error(t, err)

	out, err = run(t, dbPath, "reset-password", "--email", "till@pos.local", "--password", "newpass")
	require.NoError(t, err)
	assert.Contains(t, out, "Password for till@pos.local has been reset")

	_, err = run(t, dbPath, "reset-password", "--email", "ghost@pos.local", "--password", "newpass")
	assert.Error(t, err)
}

func TestExportAndLowStockOnEmptyStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pos.db")

	out, err := run(t, dbPath, "export")
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ID", records[0][0])

	out, err = run(t, dbPath, "low-stock", "--threshold", "5")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ID"))
}
