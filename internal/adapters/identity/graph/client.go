package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/microsoftgraph/msgraph-sdk-go/applications"
	"github.com/microsoftgraph/msgraph-sdk-go/models"

	"github.com/soladipe/saas-provision/internal/errors"
)

// Client implements DirectoryAPI against Microsoft Graph using the same
// credential the ARM clients use.
type Client struct {
	sdk *msgraphsdk.GraphServiceClient
}

func NewClient(cred azcore.TokenCredential) (*Client, error) {
	sdk, err := msgraphsdk.NewGraphServiceClientWithCredentials(cred, []string{"https://graph.microsoft.com/.default"})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDirectoryAPIError, "building Microsoft Graph client")
	}
	return &Client{sdk: sdk}, nil
}

func (c *Client) findApplication(ctx context.Context, filter string) (Application, bool, error) {
	cfg := &applications.ApplicationsRequestBuilderGetRequestConfiguration{
		QueryParameters: &applications.ApplicationsRequestBuilderGetQueryParameters{
			Filter: &filter,
		},
	}
	resp, err := c.sdk.Applications().Get(ctx, cfg)
	if err != nil {
		return Application{}, false, errors.Wrapf(err, errors.CodeDirectoryAPIError, "querying applications with filter %q", filter)
	}
	apps := resp.GetValue()
	if len(apps) == 0 {
		return Application{}, false, nil
	}
	return mapApplication(apps[0]), true, nil
}

func (c *Client) FindApplicationByAppID(ctx context.Context, appID string) (Application, bool, error) {
	return c.findApplication(ctx, fmt.Sprintf("appId eq '%s'", appID))
}

func (c *Client) FindApplicationByDisplayName(ctx context.Context, displayName string) (Application, bool, error) {
	return c.findApplication(ctx, fmt.Sprintf("displayName eq '%s'", displayName))
}

func (c *Client) CreateApplication(ctx context.Context, displayName, signInAudience string, redirectURIs []string) (Application, error) {
	app := models.NewApplication()
	app.SetDisplayName(&displayName)
	app.SetSignInAudience(&signInAudience)

	if len(redirectURIs) > 0 {
		web := models.NewWebApplication()
		web.SetRedirectUris(redirectURIs)
		grant := models.NewImplicitGrantSettings()
		enabled := true
		grant.SetEnableIdTokenIssuance(&enabled)
		web.SetImplicitGrantSettings(grant)
		app.SetWeb(web)
	}

	created, err := c.sdk.Applications().Post(ctx, app, nil)
	if err != nil {
		return Application{}, errors.Wrapf(err, errors.CodeDirectoryAPIError, "creating application %s", displayName)
	}
	return mapApplication(created), nil
}

func (c *Client) CreateServicePrincipal(ctx context.Context, appID string) (string, error) {
	sp := models.NewServicePrincipal()
	sp.SetAppId(&appID)

	created, err := c.sdk.ServicePrincipals().Post(ctx, sp, nil)
	if err != nil {
		return "", errors.Wrapf(err, errors.CodeDirectoryAPIError, "creating service principal for app %s", appID)
	}
	if created.GetId() == nil {
		return "", errors.New(errors.CodeDirectoryAPIError, "service principal came back without an ID")
	}
	return *created.GetId(), nil
}

// AddPassword generates a client secret on the application. The secret text
// is returned exactly once; Graph never surfaces it again.
func (c *Client) AddPassword(ctx context.Context, objectID, displayName string, validity time.Duration) (string, error) {
	cred := models.NewPasswordCredential()
	cred.SetDisplayName(&displayName)
	end := time.Now().UTC().Add(validity)
	cred.SetEndDateTime(&end)

	body := applications.NewItemAddPasswordPostRequestBody()
	body.SetPasswordCredential(cred)

	resp, err := c.sdk.Applications().ByApplicationId(objectID).AddPassword().Post(ctx, body, nil)
	if err != nil {
		return "", errors.Wrapf(err, errors.CodeDirectoryAPIError, "adding password to application %s", objectID)
	}
	if resp.GetSecretText() == nil {
		return "", errors.New(errors.CodeDirectoryAPIError, "password credential came back without secret text")
	}
	return *resp.GetSecretText(), nil
}

func mapApplication(app models.Applicationable) Application {
	out := Application{}
	if v := app.GetAppId(); v != nil {
		out.AppID = *v
	}
	if v := app.GetId(); v != nil {
		out.ObjectID = *v
	}
	if v := app.GetDisplayName(); v != nil {
		out.DisplayName = *v
	}
	return out
}
