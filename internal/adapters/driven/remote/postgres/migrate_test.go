package postgres

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/jobtrack/internal/adapters/driven/remote/postgres/migrations"
)

// MockMigrator is a mock for the Migrator interface.
type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMigrator) Close() (error, error) {
	args := m.Called()
	return args.Error(0), args.Error(1)
}

func engineFor(m Migrator) MigrationEngine {
	return func(string) (Migrator, error) { return m, nil }
}

func TestMigrate_Success(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(nil)
	mockM.On("Close").Return(nil, nil)

	err := Migrate(engineFor(mockM), "postgres://localhost/jobtrack")

	assert.NoError(t, err)
	mockM.AssertExpectations(t)
}

func TestMigrate_NoChange(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(migrate.ErrNoChange)
	mockM.On("Close").Return(nil, nil)

	assert.NoError(t, Migrate(engineFor(mockM), ""))
	mockM.AssertExpectations(t)
}

func TestMigrate_UpError(t *testing.T) {
	mockM := new(MockMigrator)
	boom := errors.New("dirty database version 2")
	mockM.On("Up").Return(boom)
	mockM.On("Close").Return(nil, nil)

	err := Migrate(engineFor(mockM), "")

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestMigrate_CloseErrorsJoined(t *testing.T) {
	mockM := new(MockMigrator)
	srcErr := errors.New("source closed twice")
	dbErr := errors.New("connection reset")
	mockM.On("Up").Return(nil)
	mockM.On("Close").Return(srcErr, dbErr)

	err := Migrate(engineFor(mockM), "")

	require.Error(t, err)
	assert.ErrorIs(t, err, srcErr)
	assert.ErrorIs(t, err, dbErr)
}

func TestMigrate_EngineError(t *testing.T) {
	engine := func(string) (Migrator, error) {
		return nil, errors.New("engine crash")
	}

	err := Migrate(engine, "")

	require.Error(t, err)
	assert.Equal(t, "engine crash", err.Error())
}

func TestMigrations_Embedded(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_documents.up.sql")
	assert.Contains(t, names, "000001_documents.down.sql")
	assert.Contains(t, names, "000002_users.up.sql")
}
