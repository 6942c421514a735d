package graph

import (
	"context"
	"time"
)

// Application is the subset of a directory application the provisioner
// works with.
type Application struct {
	AppID       string
	ObjectID    string
	DisplayName string
}

// DirectoryAPI is the narrow surface of the directory the provisioner
// needs. The production implementation talks to Microsoft Graph.
type DirectoryAPI interface {
	FindApplicationByAppID(ctx context.Context, appID string) (Application, bool, error)
	FindApplicationByDisplayName(ctx context.Context, displayName string) (Application, bool, error)
	CreateApplication(ctx context.Context, displayName, signInAudience string, redirectURIs []string) (Application, error)
	CreateServicePrincipal(ctx context.Context, appID string) (string, error)
	AddPassword(ctx context.Context, objectID, displayName string, validity time.Duration) (string, error)
}
