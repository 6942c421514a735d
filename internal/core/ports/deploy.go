package ports

import (
	"context"

	"github.com/soladipe/saas-provision/internal/core/domain"
)

// Deployer publishes a project and pushes the package to a target web app.
// Any failed step aborts the remaining ones; the underlying tool's error
// output is surfaced verbatim.
type Deployer interface {
	PublishAndDeploy(ctx context.Context, projectPath, target string) (domain.DeploymentOutcome, error)
}

// AssetUploader pushes branding assets (logos, stylesheets) to object
// storage.
type AssetUploader interface {
	UploadDir(ctx context.Context, dir string) (int, error)
}
