package migrate

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/errors"
)

type noopLogger struct {
	warnings int
}

func (l *noopLogger) Debugf(ctx context.Context, format string, args ...any)            {}
func (l *noopLogger) Infof(ctx context.Context, format string, args ...any)             {}
func (l *noopLogger) Warnf(ctx context.Context, format string, args ...any)             { l.warnings++ }
func (l *noopLogger) Errorf(ctx context.Context, err error, format string, args ...any) {}
func (l *noopLogger) WithFields(fields map[string]any) ports.Logger                     { return l }

type fakeDB struct {
	pingErr  error
	executed []string
}

func (f *fakeDB) PingContext(ctx context.Context) error { return f.pingErr }
func (f *fakeDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.executed = append(f.executed, query)
	return nil, nil
}
func (f *fakeDB) Close() error { return nil }

func testRunner(t *testing.T, cfg RunnerConfig, logger ports.Logger) *Runner {
	t.Helper()
	r, err := NewRunner(cfg, sampleModel(), logger)
	require.NoError(t, err)
	return r
}

func TestApplyRunsSchemaAndGrants(t *testing.T) {
	db := &fakeDB{}
	r := testRunner(t, RunnerConfig{ServerFQDN: "contoso-sql.database.windows.net", Database: "contoso-db"}, &noopLogger{})
	r.open = func(driverName, dsn string) (executor, error) {
		assert.Contains(t, dsn, "fedauth=ActiveDirectoryDefault")
		return db, nil
	}

	outcome, err := r.Apply(context.Background(), []string{"contoso-admin", "contoso-portal"})

	require.NoError(t, err)
	assert.Equal(t, 2, outcome.StatementsApplied)
	assert.Equal(t, 8, outcome.GrantsApplied)
	assert.False(t, outcome.UsedSQLAuthFallback)
	assert.Len(t, db.executed, 10)
}

func TestApplyRefusesSilentFallback(t *testing.T) {
	r := testRunner(t, RunnerConfig{ServerFQDN: "contoso-sql.database.windows.net", Database: "contoso-db"}, &noopLogger{})
	r.open = func(driverName, dsn string) (executor, error) {
		return &fakeDB{pingErr: errors.New(errors.CodePlatformAuthError, "AADSTS700016")}, nil
	}

	_, err := r.Apply(context.Background(), nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeMigrationError))
	_, suggestion, ok := errors.GetUserFacingMessage(err)
	require.True(t, ok)
	assert.Contains(t, suggestion, "--allow-sql-auth-fallback")
}

func TestApplyFallsBackOnlyWhenAllowed(t *testing.T) {
	fedDB := &fakeDB{pingErr: errors.New(errors.CodePlatformAuthError, "AADSTS700016")}
	sqlDB := &fakeDB{}
	logger := &noopLogger{}
	r := testRunner(t, RunnerConfig{
		ServerFQDN:           "contoso-sql.database.windows.net",
		Database:             "contoso-db",
		AdminUser:            "sqladmin",
		AdminPassword:        "hunter2",
		AllowSQLAuthFallback: true,
	}, logger)
	r.open = func(driverName, dsn string) (executor, error) {
		if driverName == "sqlserver" {
			assert.Contains(t, dsn, "user id=sqladmin")
			return sqlDB, nil
		}
		return fedDB, nil
	}

	outcome, err := r.Apply(context.Background(), []string{"contoso-admin"})

	require.NoError(t, err)
	assert.True(t, outcome.UsedSQLAuthFallback)
	assert.Equal(t, 1, logger.warnings, "the trust model change must be logged")
	assert.NotEmpty(t, sqlDB.executed)
}
