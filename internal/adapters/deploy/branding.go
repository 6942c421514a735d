package deploy

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"golang.org/x/sync/errgroup"

	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/errors"
)

// BlobAPI is the slice of the blob client the uploader uses.
type BlobAPI interface {
	UploadFile(ctx context.Context, containerName, blobName string, file *os.File, o *azblob.UploadFileOptions) (azblob.UploadFileResponse, error)
}

// BrandingUploader pushes branding assets (logos, stylesheets) into one blob
// container. Uploads within the stage run concurrently; this is data-plane
// traffic, so the sequential control-plane rule does not apply.
type BrandingUploader struct {
	client    BlobAPI
	container string
	logger    ports.Logger
	parallel  int
}

func NewBrandingUploader(client BlobAPI, container string, logger ports.Logger) (*BrandingUploader, error) {
	if client == nil {
		return nil, errors.New(errors.CodeConfigValidation, "blob client cannot be nil")
	}
	if container == "" {
		return nil, errors.New(errors.CodeConfigValidation, "container name cannot be empty")
	}
	return &BrandingUploader{client: client, container: container, logger: logger, parallel: 4}, nil
}

// NewBlobClient builds the data-plane blob client for one storage account
// with the shared credential.
func NewBlobClient(accountName string, cred azcore.TokenCredential) (*azblob.Client, error) {
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", accountName)
	client, err := azblob.NewClient(serviceURL, cred, nil)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeDeployError, "building blob client for account %s", accountName)
	}
	return client, nil
}

// UploadDir uploads every regular file under dir, keyed by its
// slash-separated path relative to dir. Returns the number of files
// uploaded.
func (u *BrandingUploader) UploadDir(ctx context.Context, dir string) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.parallel)

	var uploaded atomic.Int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		blobName := filepath.ToSlash(rel)

		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return errors.Wrapf(err, errors.CodeDeployError, "opening asset %s", path)
			}
			defer f.Close()

			if _, err := u.client.UploadFile(gctx, u.container, blobName, f, nil); err != nil {
				return errors.Wrapf(err, errors.CodeDeployError, "uploading asset %s", blobName)
			}
			uploaded.Add(1)
			u.logger.Debugf(gctx, "Uploaded branding asset %s", blobName)
			return nil
		})
		return nil
	})
	if err != nil {
		return int(uploaded.Load()), errors.Wrapf(err, errors.CodeDeployError, "walking branding directory %s", dir)
	}
	if err := g.Wait(); err != nil {
		return int(uploaded.Load()), err
	}

	count := int(uploaded.Load())
	u.logger.Infof(ctx, "Uploaded %d branding assets to container %s", count, u.container)
	return count, nil
}
