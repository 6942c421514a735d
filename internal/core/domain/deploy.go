package domain

import "time"

// DeploymentPackage is a published build output bundled for upload.
type DeploymentPackage struct {
	SourcePath   string
	ArtifactPath string
}

// DeploymentOutcome reports one publish-and-deploy run against a web app.
type DeploymentOutcome struct {
	Target     string
	Package    DeploymentPackage
	DeployedAt time.Time
}

// MigrationOutcome reports a schema migration pass.
type MigrationOutcome struct {
	StatementsApplied int
	GrantsApplied     int
	// UsedSQLAuthFallback is true when role grants fell back from federated
	// identity to database-local credentials. The fallback changes the trust
	// model, so callers must surface it to the operator.
	UsedSQLAuthFallback bool
}
