package runmanifest

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileName is the run artifact written to the working directory. It is the
// only local output a run persists.
const FileName = "saas-provision.output.json"

// Manifest records what a run produced: identity IDs, target scope and
// derived endpoints. Secret values never appear here; they live in the
// vault. Only name and version references are recorded.
type Manifest struct {
	RunID          string       `json:"run_id"`
	CompletedAt    time.Time    `json:"completed_at"`
	TenantID       string       `json:"tenant_id"`
	SubscriptionID string       `json:"subscription_id"`
	Region         string       `json:"region"`
	VaultName      string       `json:"vault_name"`
	Identities     []Identity   `json:"identities,omitempty"`
	WebApps        []WebApp     `json:"web_apps,omitempty"`
	Resources      []Resource   `json:"resources"`
	Secrets        []SecretRef  `json:"secrets,omitempty"`
	Deployments    []Deployment `json:"deployments,omitempty"`
}

type Identity struct {
	DisplayName        string `json:"display_name"`
	ApplicationID      string `json:"application_id"`
	ObjectID           string `json:"object_id"`
	ServicePrincipalID string `json:"service_principal_id,omitempty"`
	Created            bool   `json:"created"`
}

type WebApp struct {
	Name     string `json:"name"`
	Hostname string `json:"hostname"`
}

type Resource struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	ResourceID string `json:"resource_id"`
	Created    bool   `json:"created"`
}

type SecretRef struct {
	VaultName  string `json:"vault_name"`
	SecretName string `json:"secret_name"`
	Version    string `json:"version,omitempty"`
}

type Deployment struct {
	Target     string    `json:"target"`
	DeployedAt time.Time `json:"deployed_at"`
}

// New starts a manifest for one run scope with a fresh run ID.
func New(tenantID, subscriptionID, region, vaultName string) *Manifest {
	return &Manifest{
		RunID:          uuid.NewString(),
		TenantID:       tenantID,
		SubscriptionID: subscriptionID,
		Region:         region,
		VaultName:      vaultName,
	}
}

// AddResults appends the provisioning results in plan order.
func (m *Manifest) AddResults(results []domain.ProvisioningResult) {
	for _, r := range results {
		m.Resources = append(m.Resources, Resource{
			Kind:       r.Spec.Kind.String(),
			Name:       r.Spec.Name,
			ResourceID: r.ResourceID,
			Created:    r.Created,
		})
		if r.Spec.Kind == domain.KindWebApp {
			if hostname, ok := r.Attributes[domain.AttrDefaultHostname]; ok {
				m.WebApps = append(m.WebApps, WebApp{Name: r.Spec.Name, Hostname: hostname})
			}
		}
	}
}

// AddIdentity records an app registration without its client secret.
func (m *Manifest) AddIdentity(reg domain.AppRegistration) {
	m.Identities = append(m.Identities, Identity{
		DisplayName:        reg.DisplayName,
		ApplicationID:      reg.ApplicationID,
		ObjectID:           reg.ObjectID,
		ServicePrincipalID: reg.ServicePrincipalID,
		Created:            reg.Created,
	})
}

// AddSecret records a stored secret by reference.
func (m *Manifest) AddSecret(record domain.SecretRecord) {
	m.Secrets = append(m.Secrets, SecretRef{
		VaultName:  record.VaultName,
		SecretName: record.SecretName,
		Version:    record.Version,
	})
}

// AddDeployment records a completed deployment.
func (m *Manifest) AddDeployment(outcome domain.DeploymentOutcome) {
	m.Deployments = append(m.Deployments, Deployment{
		Target:     outcome.Target,
		DeployedAt: outcome.DeployedAt,
	})
}

// Write stamps the completion time and persists the manifest into dir. The
// file is owner-readable only; it references identities, not secrets, but
// there is no reason to share it wider.
func (m *Manifest) Write(dir string) (string, error) {
	m.CompletedAt = time.Now().UTC()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "encoding run manifest")
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", errors.Wrapf(err, errors.CodeInternal, "writing run manifest %s", path)
	}
	return path, nil
}
