package deploy

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/soladipe/saas-provision/internal/errors"
)

// packageDir zips the publish output into destPath. Entry names are
// slash-separated paths relative to dir; Kudu unpacks them relative to the
// site root.
func packageDir(dir, destPath string) error {
	out, err := os.Create(destPath)
	if err != nil {
		return errors.Wrapf(err, errors.CodeDeployError, "creating archive %s", destPath)
	}
	defer out.Close()

	w := zip.NewWriter(out)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
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
		entry, err := w.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(entry, f)
		return err
	})
	if err != nil {
		w.Close()
		return errors.Wrapf(err, errors.CodeDeployError, "packaging %s", dir)
	}
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, errors.CodeDeployError, "finalizing archive %s", destPath)
	}
	return nil
}
