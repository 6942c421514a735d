package errors

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/soladipe/saas-provision/internal/errors"
)

func responseError(statusCode int, errorCode string) *azcore.ResponseError {
	return &azcore.ResponseError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		RawResponse: &http.Response{
			StatusCode: statusCode,
			Request:    &http.Request{Method: http.MethodGet},
			Body:       io.NopCloser(strings.NewReader("")),
		},
	}
}

func TestClassifyNotFound(t *testing.T) {
	err := Classify("resource group", "contoso-rg", responseError(http.StatusNotFound, "ResourceGroupNotFound"), context.Background())

	assert.True(t, apperrors.Is(err, apperrors.CodeResourceNotFound))
	assert.Contains(t, err.Error(), "contoso-rg")
}

func TestClassifyPropagationOn404(t *testing.T) {
	err := Classify("subnet", "contoso-snet-app", responseError(http.StatusNotFound, "ParentResourceNotFound"), context.Background())

	assert.True(t, apperrors.Is(err, apperrors.CodePropagationError))
}

func TestClassifyPropagationOnRetryableCode(t *testing.T) {
	err := Classify("web app", "contoso-admin", responseError(http.StatusBadRequest, "AnotherOperationInProgress"), context.Background())

	assert.True(t, apperrors.Is(err, apperrors.CodePropagationError))
}

func TestClassifyAuthErrors(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		err := Classify("key vault", "contoso-kv", responseError(status, "AuthorizationFailed"), context.Background())
		assert.True(t, apperrors.Is(err, apperrors.CodePlatformAuthError), "status %d", status)
	}
}

func TestClassifyNameConflictIsUserFacing(t *testing.T) {
	err := Classify("key vault", "contoso-kv", responseError(http.StatusConflict, "VaultAlreadyExists"), context.Background())

	assert.True(t, apperrors.Is(err, apperrors.CodeNameConflict))
	msg, suggestion, ok := apperrors.GetUserFacingMessage(err)
	assert.True(t, ok)
	assert.Contains(t, msg, "contoso-kv")
	assert.Contains(t, suggestion, "prefix")
}

func TestClassifyCancelledContextWins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Classify("SQL server", "contoso-sql", responseError(http.StatusNotFound, ""), ctx)

	assert.True(t, apperrors.Is(err, apperrors.CodeTimeout))
}

func TestClassifyUnknownFallsBackToAPIError(t *testing.T) {
	err := Classify("subnet", "contoso-snet-app", assertError("connection reset"), context.Background())

	assert.True(t, apperrors.Is(err, apperrors.CodePlatformAPIError))
}

type assertError string

func (e assertError) Error() string { return string(e) }

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(responseError(http.StatusNotFound, "NotFound")))
	assert.False(t, IsNotFound(responseError(http.StatusConflict, "VaultAlreadyExists")))
	assert.True(t, IsNotFound(assertError("GET https://... RESPONSE 404")))
	assert.False(t, IsNotFound(assertError("connection reset")))
}
