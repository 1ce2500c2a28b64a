package middleware

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFileHash(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.css")
	require.NoError(t, os.WriteFile(tmpFile, []byte("body { color: red; }"), 0644))

	hash := computeFileHash(tmpFile)
	assert.Len(t, hash, 8)

	assert.Equal(t, "", computeFileHash("non_existent_file.css"))
}

func TestComputeAssetVersions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "landing.css"), []byte("css"), 0644))

	versions := computeAssetVersions(dir, []string{AssetCSS, AssetJS})
	assert.Len(t, versions[AssetCSS], 8)
	assert.Equal(t, "1", versions[AssetJS])
}

func TestAssetURL(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "1", GetAssetVersion(ctx, "js/unknown.js"))
	assert.Equal(t, "/static/js/unknown.js?v=1", AssetURL(ctx, "js/unknown.js"))
}
