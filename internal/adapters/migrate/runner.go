package migrate

import (
	"context"
	"database/sql"
	"fmt"

	// The azuread driver import also registers the plain sqlserver driver
	// used by the fallback path.
	"github.com/microsoft/go-mssqldb/azuread"

	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/errors"
)

// executor is the slice of *sql.DB the runner uses.
type executor interface {
	PingContext(ctx context.Context) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Close() error
}

type openFunc func(driverName, dsn string) (executor, error)

func defaultOpen(driverName, dsn string) (executor, error) {
	return sql.Open(driverName, dsn)
}

// RunnerConfig locates the target database and carries the admin credential
// for the fallback path.
type RunnerConfig struct {
	ServerFQDN    string
	Database      string
	AdminUser     string
	AdminPassword string
	// AllowSQLAuthFallback permits the connection to fall back from
	// federated identity to SQL authentication. The fallback is a trust
	// model change and never happens silently.
	AllowSQLAuthFallback bool
}

// Runner applies the schema model and grants runtime roles over an admin
// connection.
type Runner struct {
	cfg    RunnerConfig
	model  SchemaModel
	logger ports.Logger
	open   openFunc
}

func NewRunner(cfg RunnerConfig, model SchemaModel, logger ports.Logger) (*Runner, error) {
	if cfg.ServerFQDN == "" || cfg.Database == "" {
		return nil, errors.New(errors.CodeConfigValidation, "migration runner needs a server FQDN and database name")
	}
	if logger == nil {
		return nil, errors.New(errors.CodeConfigValidation, "logger cannot be nil")
	}
	return &Runner{cfg: cfg, model: model, logger: logger, open: defaultOpen}, nil
}

func (r *Runner) Apply(ctx context.Context, identities []string) (domain.MigrationOutcome, error) {
	db, usedFallback, err := r.connect(ctx)
	if err != nil {
		return domain.MigrationOutcome{}, err
	}
	defer db.Close()

	outcome := domain.MigrationOutcome{UsedSQLAuthFallback: usedFallback}

	for _, stmt := range GenerateStatements(r.model) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return outcome, errors.Wrapf(err, errors.CodeMigrationError, "applying schema statement %d", outcome.StatementsApplied+1)
		}
		outcome.StatementsApplied++
	}
	r.logger.Infof(ctx, "Applied %d schema statements to %s", outcome.StatementsApplied, r.cfg.Database)

	for _, identity := range identities {
		for _, stmt := range GrantStatements(identity) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return outcome, errors.Wrapf(err, errors.CodeMigrationError, "granting roles to %s", identity)
			}
			outcome.GrantsApplied++
		}
		r.logger.Infof(ctx, "Granted runtime roles to %s", identity)
	}

	return outcome, nil
}

// connect prefers federated identity and falls back to SQL authentication
// only when explicitly allowed.
func (r *Runner) connect(ctx context.Context) (executor, bool, error) {
	fedDSN := fmt.Sprintf("server=%s;database=%s;fedauth=ActiveDirectoryDefault;encrypt=true", r.cfg.ServerFQDN, r.cfg.Database)
	db, err := r.open(azuread.DriverName, fedDSN)
	if err == nil {
		pingErr := db.PingContext(ctx)
		if pingErr == nil {
			return db, false, nil
		}
		db.Close()
		err = pingErr
	}

	if !r.cfg.AllowSQLAuthFallback {
		return nil, false, errors.WrapUserFacing(err, errors.CodeMigrationError,
			"federated identity connection to "+r.cfg.ServerFQDN+" failed",
			"Check that your credential has directory access to the SQL server, or pass --allow-sql-auth-fallback to use SQL authentication.")
	}

	r.logger.Warnf(ctx, "FALLING BACK TO SQL AUTHENTICATION for %s: role grants will run under a database-local credential instead of federated identity", r.cfg.ServerFQDN)

	sqlDSN := fmt.Sprintf("server=%s;database=%s;user id=%s;password=%s;encrypt=true", r.cfg.ServerFQDN, r.cfg.Database, r.cfg.AdminUser, r.cfg.AdminPassword)
	db, err = r.open("sqlserver", sqlDSN)
	if err != nil {
		return nil, false, errors.Wrapf(err, errors.CodeMigrationError, "opening SQL auth connection to %s", r.cfg.ServerFQDN)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, false, errors.Wrapf(err, errors.CodeMigrationError, "SQL auth connection to %s failed", r.cfg.ServerFQDN)
	}
	return db, true, nil
}
