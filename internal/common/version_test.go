package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadVersionFrom_FillsDefaultsOnly(t *testing.T) {
	oldVersion, oldBuild, oldCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = oldVersion, oldBuild, oldCommit })

	Version, Build, GitCommit = "dev", "2026-01-01", "unknown"

	path := filepath.Join(t.TempDir(), ".version")
	content := "# generated\nversion: 1.4.0\nbuild: 2026-10-01\ncommit: abc123\nnot a pair\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	loadVersionFrom(path)

	assert.Equal(t, "1.4.0", Version)
	assert.Equal(t, "2026-01-01", Build, "ldflags value wins over file")
	assert.Equal(t, "abc123", GitCommit)
	assert.Equal(t, "1.4.0 (build: 2026-01-01, commit: abc123)", GetFullVersion())
}
