package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/soladipe/saas-provision/internal/errors"
)

// ARM error codes that indicate a dependent resource has not propagated yet.
// Creates hitting these are safe to retry with a fixed backoff.
var propagationCodes = map[string]struct{}{
	"ParentResourceNotFound":           {},
	"ReferencedResourceNotProvisioned": {},
	"AnotherOperationInProgress":       {},
	"RetryableError":                   {},
	"SubnetIsBeingUpdated":             {},
	"PrincipalNotFound":                {},
}

// ARM error codes for globally reserved names. These are irrecoverable for
// the current inputs and need operator action.
var nameConflictCodes = map[string]struct{}{
	"VaultAlreadyExists":          {},
	"ConflictingServerOperation":  {},
	"NameAlreadyExists":           {},
	"InvalidResourceNameConflict": {},
	"ServerNameAlreadyExists":     {},
	"WebsiteAlreadyExists":        {},
}

// Classify maps an Azure control-plane error onto the application's error
// taxonomy. resourceType and name identify the resource for operator-facing
// messages.
func Classify(resourceType, name string, err error, ctx context.Context) error {
	if err == nil {
		return errors.New(errors.CodeInternal,
			fmt.Sprintf("unexpected nil error in Azure error handler for %s", resourceType))
	}

	if ctx.Err() != nil {
		return errors.Wrapf(ctx.Err(), errors.CodeTimeout,
			"context cancelled during Azure %s API call", resourceType)
	}

	var respErr *azcore.ResponseError
	if stderrs.As(err, &respErr) {
		code := respErr.ErrorCode
		switch {
		case respErr.StatusCode == http.StatusNotFound:
			if _, ok := propagationCodes[code]; ok {
				return errors.Wrapf(err, errors.CodePropagationError,
					"%s '%s': dependency not yet visible (%s)", resourceType, name, code)
			}
			return errors.Wrapf(err, errors.CodeResourceNotFound,
				"%s '%s' not found", resourceType, name)
		case respErr.StatusCode == http.StatusUnauthorized || respErr.StatusCode == http.StatusForbidden:
			return errors.Wrapf(err, errors.CodePlatformAuthError,
				"Azure authorization error accessing %s '%s'", resourceType, name)
		case respErr.StatusCode == http.StatusConflict:
			if _, ok := nameConflictCodes[code]; ok {
				return errors.WrapUserFacing(err, errors.CodeNameConflict,
					fmt.Sprintf("%s name '%s' is already taken or reserved (%s)", resourceType, name, code),
					"Pick a different name prefix, or purge the soft-deleted resource if you own it.")
			}
			return errors.Wrapf(err, errors.CodePlatformAPIError,
				"conflicting operation on %s '%s'", resourceType, name)
		}
		if _, ok := propagationCodes[code]; ok {
			return errors.Wrapf(err, errors.CodePropagationError,
				"%s '%s': dependency not yet visible (%s)", resourceType, name, code)
		}
	}

	return errors.Wrapf(err, errors.CodePlatformAPIError,
		"failed to access %s '%s'", resourceType, name)
}

// IsNotFound reports whether err is a plain 404 from the control plane, the
// signal that an existence check should take the create path.
func IsNotFound(err error) bool {
	var respErr *azcore.ResponseError
	if stderrs.As(err, &respErr) {
		return respErr.StatusCode == http.StatusNotFound
	}
	// Some data-plane clients flatten the response error into text.
	return strings.Contains(err.Error(), "RESPONSE 404") ||
		strings.Contains(err.Error(), "NotFound")
}
