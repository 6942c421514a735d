package web

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice"

	azerrors "github.com/soladipe/saas-provision/internal/adapters/platform/azure/errors"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/limiter"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/shared"
	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/errors"
)

// AppHandler ensures Linux web apps with a system-assigned managed identity.
// The identity principal ID is surfaced as a result attribute so access
// policies and database grants can target it.
type AppHandler struct {
	client         WebAppsAPI
	subscriptionID string
	logger         ports.Logger
}

func NewAppHandler(client WebAppsAPI, subscriptionID string, logger ports.Logger) *AppHandler {
	return &AppHandler{client: client, subscriptionID: subscriptionID, logger: logger}
}

func (h *AppHandler) Kind() domain.ResourceKind {
	return domain.KindWebApp
}

func (h *AppHandler) planID(spec domain.ResourceSpec) (string, error) {
	plan := spec.Property(domain.PropPlanName, "")
	if plan == "" {
		return "", errors.Newf(errors.CodePlanError, "web app %s is missing the %s property", spec.Name, domain.PropPlanName)
	}
	return shared.AppServicePlanID(h.subscriptionID, spec.ResourceGroup, plan), nil
}

func (h *AppHandler) Check(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, bool, error) {
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, false, err
	}

	resp, err := h.client.Get(ctx, spec.ResourceGroup, spec.Name, nil)
	if err != nil {
		if azerrors.IsNotFound(err) {
			return domain.ProvisioningResult{}, false, nil
		}
		return domain.ProvisioningResult{}, false, azerrors.Classify("web app", spec.Name, err, ctx)
	}
	return mapSite(spec, resp.Site), true, nil
}

func (h *AppHandler) Create(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, error) {
	planID, err := h.planID(spec)
	if err != nil {
		return domain.ProvisioningResult{}, err
	}
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, err
	}

	params := armappservice.Site{
		Location: to.Ptr(spec.Region),
		Identity: &armappservice.ManagedServiceIdentity{
			Type: to.Ptr(armappservice.ManagedServiceIdentityTypeSystemAssigned),
		},
		Properties: &armappservice.SiteProperties{
			ServerFarmID: to.Ptr(planID),
			HTTPSOnly:    to.Ptr(true),
			SiteConfig: &armappservice.SiteConfig{
				LinuxFxVersion: to.Ptr(spec.Property(domain.PropRuntime, "DOTNETCORE|8.0")),
				MinTLSVersion:  to.Ptr(armappservice.SupportedTLSVersionsOne2),
			},
		},
	}
	site, err := h.client.CreateOrUpdateAndWait(ctx, spec.ResourceGroup, spec.Name, params)
	if err != nil {
		return domain.ProvisioningResult{}, azerrors.Classify("web app", spec.Name, err, ctx)
	}
	return mapSite(spec, site), nil
}

// PublishingCredentials retrieves the SCM deployment user for one web app.
// The password is returned to the caller and never logged.
func (h *AppHandler) PublishingCredentials(ctx context.Context, resourceGroup, name string) (user, password string, err error) {
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return "", "", err
	}

	creds, err := h.client.ListPublishingCredentialsAndWait(ctx, resourceGroup, name)
	if err != nil {
		return "", "", azerrors.Classify("web app publishing credentials", name, err, ctx)
	}
	if creds.Properties == nil || creds.Properties.PublishingUserName == nil || creds.Properties.PublishingPassword == nil {
		return "", "", errors.Newf(errors.CodePlatformAPIError, "publishing credentials for %s came back incomplete", name)
	}
	return *creds.Properties.PublishingUserName, *creds.Properties.PublishingPassword, nil
}

// AttachVNet places the app's outbound traffic on the given subnet through
// regional VNet integration.
func (h *AppHandler) AttachVNet(ctx context.Context, resourceGroup, name, vnetName, subnetName string) error {
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return err
	}

	subnetID := shared.SubnetID(h.subscriptionID, resourceGroup, vnetName, subnetName)
	params := armappservice.SwiftVirtualNetwork{
		Properties: &armappservice.SwiftVirtualNetworkProperties{
			SubnetResourceID: to.Ptr(subnetID),
			SwiftSupported:   to.Ptr(true),
		},
	}
	if err := h.client.AttachSwiftVirtualNetwork(ctx, resourceGroup, name, params); err != nil {
		return azerrors.Classify("web app VNet integration", name, err, ctx)
	}
	h.logger.Infof(ctx, "Attached web app %s to subnet %s", name, subnetName)
	return nil
}

func mapSite(spec domain.ResourceSpec, site armappservice.Site) domain.ProvisioningResult {
	result := domain.ProvisioningResult{Spec: spec, Attributes: map[string]string{}}
	if site.ID != nil {
		result.ResourceID = *site.ID
		result.Attributes[domain.AttrID] = *site.ID
	}
	if site.Properties != nil {
		if site.Properties.DefaultHostName != nil {
			result.Attributes[domain.AttrDefaultHostname] = *site.Properties.DefaultHostName
		}
		if site.Properties.ServerFarmID != nil {
			result.Attributes[domain.AttrServerFarmID] = *site.Properties.ServerFarmID
		}
	}
	if site.Identity != nil && site.Identity.PrincipalID != nil {
		result.Attributes[domain.AttrPrincipalID] = *site.Identity.PrincipalID
	}
	return result
}
