package sqldb

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/sql/armsql"
)

type ServersAPI interface {
	Get(ctx context.Context, resourceGroup, name string, options *armsql.ServersClientGetOptions) (armsql.ServersClientGetResponse, error)
	CreateOrUpdateAndWait(ctx context.Context, resourceGroup, name string, params armsql.Server) (armsql.Server, error)
}

type DatabasesAPI interface {
	Get(ctx context.Context, resourceGroup, serverName, name string, options *armsql.DatabasesClientGetOptions) (armsql.DatabasesClientGetResponse, error)
	CreateOrUpdateAndWait(ctx context.Context, resourceGroup, serverName, name string, params armsql.Database) (armsql.Database, error)
}

type serversSDK struct {
	client *armsql.ServersClient
}

func WrapServers(client *armsql.ServersClient) ServersAPI {
	return serversSDK{client: client}
}

func (s serversSDK) Get(ctx context.Context, resourceGroup, name string, options *armsql.ServersClientGetOptions) (armsql.ServersClientGetResponse, error) {
	return s.client.Get(ctx, resourceGroup, name, options)
}

func (s serversSDK) CreateOrUpdateAndWait(ctx context.Context, resourceGroup, name string, params armsql.Server) (armsql.Server, error) {
	poller, err := s.client.BeginCreateOrUpdate(ctx, resourceGroup, name, params, nil)
	if err != nil {
		return armsql.Server{}, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return armsql.Server{}, err
	}
	return resp.Server, nil
}

type databasesSDK struct {
	client *armsql.DatabasesClient
}

func WrapDatabases(client *armsql.DatabasesClient) DatabasesAPI {
	return databasesSDK{client: client}
}

func (s databasesSDK) Get(ctx context.Context, resourceGroup, serverName, name string, options *armsql.DatabasesClientGetOptions) (armsql.DatabasesClientGetResponse, error) {
	return s.client.Get(ctx, resourceGroup, serverName, name, options)
}

func (s databasesSDK) CreateOrUpdateAndWait(ctx context.Context, resourceGroup, serverName, name string, params armsql.Database) (armsql.Database, error) {
	poller, err := s.client.BeginCreateOrUpdate(ctx, resourceGroup, serverName, name, params, nil)
	if err != nil {
		return armsql.Database{}, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return armsql.Database{}, err
	}
	return resp.Database, nil
}
