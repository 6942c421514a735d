package deploy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"

	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CredentialSource resolves SCM publishing credentials for a web app.
type CredentialSource interface {
	PublishingCredentials(ctx context.Context, resourceGroup, name string) (string, string, error)
}

// HTTPDoer is the slice of http.Client the deployer uses.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ZipDeployer publishes a dotnet project and pushes the package to a web
// app's Kudu zipdeploy endpoint. Steps run strictly in order and the first
// failure aborts the rest.
type ZipDeployer struct {
	runner        CommandRunner
	creds         CredentialSource
	httpClient    HTTPDoer
	resourceGroup string
	logger        ports.Logger

	pollRetries  int
	pollInterval time.Duration
}

func NewZipDeployer(runner CommandRunner, creds CredentialSource, httpClient HTTPDoer, resourceGroup string, logger ports.Logger) (*ZipDeployer, error) {
	if runner == nil || creds == nil || httpClient == nil {
		return nil, errors.New(errors.CodeConfigValidation, "runner, credential source and HTTP client are all required")
	}
	if logger == nil {
		return nil, errors.New(errors.CodeConfigValidation, "logger cannot be nil")
	}
	return &ZipDeployer{
		runner:        runner,
		creds:         creds,
		httpClient:    httpClient,
		resourceGroup: resourceGroup,
		logger:        logger,
		pollRetries:   30,
		pollInterval:  5 * time.Second,
	}, nil
}

func (d *ZipDeployer) PublishAndDeploy(ctx context.Context, projectPath, target string) (domain.DeploymentOutcome, error) {
	workDir, err := os.MkdirTemp("", "saas-provision-publish-*")
	if err != nil {
		return domain.DeploymentOutcome{}, errors.Wrap(err, errors.CodeDeployError, "creating publish workspace")
	}
	defer os.RemoveAll(workDir)

	publishDir := filepath.Join(workDir, "publish")
	d.logger.Infof(ctx, "Publishing %s", projectPath)
	if _, err := d.runner.Run(ctx, "", "dotnet", "publish", projectPath, "-c", "Release", "-o", publishDir); err != nil {
		return domain.DeploymentOutcome{}, err
	}

	artifact := filepath.Join(workDir, "package.zip")
	if err := packageDir(publishDir, artifact); err != nil {
		return domain.DeploymentOutcome{}, err
	}

	user, password, err := d.creds.PublishingCredentials(ctx, d.resourceGroup, target)
	if err != nil {
		return domain.DeploymentOutcome{}, err
	}

	d.logger.Infof(ctx, "Deploying package to %s", target)
	statusURL, err := d.pushPackage(ctx, target, artifact, user, password)
	if err != nil {
		return domain.DeploymentOutcome{}, err
	}
	if err := d.awaitDeployment(ctx, target, statusURL, user, password); err != nil {
		return domain.DeploymentOutcome{}, err
	}

	return domain.DeploymentOutcome{
		Target:     target,
		Package:    domain.DeploymentPackage{SourcePath: projectPath, ArtifactPath: artifact},
		DeployedAt: time.Now().UTC(),
	}, nil
}

func (d *ZipDeployer) pushPackage(ctx context.Context, target, artifact, user, password string) (string, error) {
	f, err := os.Open(artifact)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeDeployError, "opening package")
	}
	defer f.Close()

	url := fmt.Sprintf("https://%s.scm.azurewebsites.net/api/zipdeploy?isAsync=true", target)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, f)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeDeployError, "building zipdeploy request")
	}
	req.SetBasicAuth(user, password)
	req.Header.Set("Content-Type", "application/zip")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, errors.CodeDeployError, "pushing package to %s", target)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", errors.Newf(errors.CodeDeployError, "zipdeploy to %s returned %d: %s", target, resp.StatusCode, string(body))
	}

	statusURL := resp.Header.Get("Location")
	if statusURL == "" {
		statusURL = fmt.Sprintf("https://%s.scm.azurewebsites.net/api/deployments/latest", target)
	}
	return statusURL, nil
}

type deploymentStatus struct {
	Complete bool   `json:"complete"`
	Status   int    `json:"status"`
	Message  string `json:"message"`
}

// Kudu deployment status codes: 3 is failed, 4 is success.
const (
	kuduStatusFailed  = 3
	kuduStatusSuccess = 4
)

func (d *ZipDeployer) awaitDeployment(ctx context.Context, target, statusURL, user, password string) error {
	check := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
		if err != nil {
			return backoff.Permanent(errors.Wrap(err, errors.CodeDeployError, "building status request"))
		}
		req.SetBasicAuth(user, password)

		resp, err := d.httpClient.Do(req)
		if err != nil {
			return backoff.Permanent(errors.Wrapf(err, errors.CodeDeployError, "checking deployment status for %s", target))
		}
		defer resp.Body.Close()

		var status deploymentStatus
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			return backoff.Permanent(errors.Wrap(err, errors.CodeDeployError, "decoding deployment status"))
		}
		if status.Status == kuduStatusFailed {
			return backoff.Permanent(errors.Newf(errors.CodeDeployError, "deployment to %s failed: %s", target, status.Message))
		}
		if !status.Complete {
			return errors.Newf(errors.CodePropagationError, "deployment to %s still running", target)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(d.pollInterval), uint64(d.pollRetries)),
		ctx,
	)
	if err := backoff.Retry(check, policy); err != nil {
		if errors.Is(err, errors.CodePropagationError) {
			return errors.Wrapf(err, errors.CodeDeployError, "deployment to %s did not complete in time", target)
		}
		return err
	}
	d.logger.Infof(ctx, "Deployment to %s completed", target)
	return nil
}
