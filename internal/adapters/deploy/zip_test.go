package deploy

import (
	"archive/zip"
	"testing"

	"github.com/stretchr/testify/require"
)

func zipEntryNames(t *testing.T, archivePath string) []string {
	t.Helper()
	r, err := zip.OpenReader(archivePath)
	require.NoError(t, err)
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}
