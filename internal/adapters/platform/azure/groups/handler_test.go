package groups

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/limiter"
	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
)

type noopLogger struct{}

func (noopLogger) Debugf(ctx context.Context, format string, args ...any)            {}
func (noopLogger) Infof(ctx context.Context, format string, args ...any)             {}
func (noopLogger) Warnf(ctx context.Context, format string, args ...any)             {}
func (noopLogger) Errorf(ctx context.Context, err error, format string, args ...any) {}
func (noopLogger) WithFields(fields map[string]any) ports.Logger                     { return noopLogger{} }

func stubLimiter(t *testing.T) {
	t.Helper()
	original := limiter.WaitFunc
	limiter.WaitFunc = func(ctx context.Context, logger ports.Logger) error { return nil }
	t.Cleanup(func() { limiter.WaitFunc = original })
}

func notFoundError() error {
	return &azcore.ResponseError{
		StatusCode: http.StatusNotFound,
		ErrorCode:  "ResourceGroupNotFound",
		RawResponse: &http.Response{
			StatusCode: http.StatusNotFound,
			Request:    &http.Request{Method: http.MethodGet},
			Body:       io.NopCloser(strings.NewReader("")),
		},
	}
}

type fakeGroups struct {
	existing map[string]armresources.ResourceGroup
	creates  int
}

func (f *fakeGroups) Get(ctx context.Context, name string, options *armresources.ResourceGroupsClientGetOptions) (armresources.ResourceGroupsClientGetResponse, error) {
	rg, ok := f.existing[name]
	if !ok {
		return armresources.ResourceGroupsClientGetResponse{}, notFoundError()
	}
	return armresources.ResourceGroupsClientGetResponse{ResourceGroup: rg}, nil
}

func (f *fakeGroups) CreateOrUpdate(ctx context.Context, name string, parameters armresources.ResourceGroup, options *armresources.ResourceGroupsClientCreateOrUpdateOptions) (armresources.ResourceGroupsClientCreateOrUpdateResponse, error) {
	f.creates++
	rg := armresources.ResourceGroup{
		ID:       to.Ptr("/subscriptions/sub-1/resourceGroups/" + name),
		Name:     to.Ptr(name),
		Location: parameters.Location,
		Tags:     parameters.Tags,
	}
	if f.existing == nil {
		f.existing = map[string]armresources.ResourceGroup{}
	}
	f.existing[name] = rg
	return armresources.ResourceGroupsClientCreateOrUpdateResponse{ResourceGroup: rg}, nil
}

func groupSpec() domain.ResourceSpec {
	return domain.ResourceSpec{
		Kind:   domain.KindResourceGroup,
		Name:   "contoso-rg",
		Region: "eastus",
	}
}

func TestCheckReportsAbsentGroup(t *testing.T) {
	stubLimiter(t)
	h := NewHandler(&fakeGroups{}, noopLogger{})

	_, found, err := h.Check(context.Background(), groupSpec())

	require.NoError(t, err, "a clean 404 is not an error, it is the create signal")
	assert.False(t, found)
}

func TestCheckFindsExistingGroup(t *testing.T) {
	stubLimiter(t)
	fake := &fakeGroups{existing: map[string]armresources.ResourceGroup{
		"contoso-rg": {
			ID:       to.Ptr("/subscriptions/sub-1/resourceGroups/contoso-rg"),
			Location: to.Ptr("eastus"),
		},
	}}
	h := NewHandler(fake, noopLogger{})

	result, found, err := h.Check(context.Background(), groupSpec())

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/subscriptions/sub-1/resourceGroups/contoso-rg", result.ResourceID)
	assert.Equal(t, "eastus", result.Attributes[domain.AttrLocation])
	assert.Zero(t, fake.creates)
}

func TestCreateTagsTheGroup(t *testing.T) {
	stubLimiter(t)
	fake := &fakeGroups{}
	h := NewHandler(fake, noopLogger{})

	result, err := h.Create(context.Background(), groupSpec())

	require.NoError(t, err)
	assert.Equal(t, 1, fake.creates)
	assert.NotEmpty(t, result.ResourceID)

	created := fake.existing["contoso-rg"]
	require.Contains(t, created.Tags, "managed-by")
	assert.Equal(t, "saas-provision", *created.Tags["managed-by"])
}
