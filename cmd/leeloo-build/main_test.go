package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contriboss/leeloo-go/extbuild"
)

func TestBuildConfigFlags(t *testing.T) {
	opts, err := parseArgs([]string{"-s", "/src/leeloo", "--build-arg=-DFOO=1", "--build-arg=-DBAR=2", "-j", "4", "--clean"})
	require.NoError(t, err)
	assert.Equal(t, "CMakeLists.txt", opts.file)

	cfg, err := buildConfig(opts)
	require.NoError(t, err)
	assert.Equal(t, "/src/leeloo", cfg.SourceDir)
	assert.Equal(t, defaultPackageDir, cfg.PackageDir)
	assert.Equal(t, []string{"-DFOO=1", "-DBAR=2"}, cfg.BuildArgs)
	assert.Equal(t, 4, cfg.Parallel)
	assert.True(t, cfg.CleanFirst)
	assert.False(t, cfg.Verbose)
}

func TestBuildConfigFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source_dir: /from/file
package_dir: dist
python_version: "3.11"
build_args: ["-DFROM_FILE=1"]
parallel: 2
verbose: true
`), 0o600))

	opts, err := parseArgs([]string{"--config", path, "--python-version", "3.13", "bindings/python/CMakeLists.txt"})
	require.NoError(t, err)

	cfg, err := buildConfig(opts)
	require.NoError(t, err)
	assert.Equal(t, "/from/file", cfg.SourceDir)
	assert.Equal(t, "dist", cfg.PackageDir)
	assert.Equal(t, "3.13", cfg.PythonVersion)
	assert.Equal(t, []string{"-DFROM_FILE=1"}, cfg.BuildArgs)
	assert.Equal(t, 2, cfg.Parallel)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "bindings/python/CMakeLists.txt", opts.file)

	opts.config = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = buildConfig(opts)
	require.Error(t, err)
}

func TestRunWithoutBuilder(t *testing.T) {
	log, _ := test.NewNullLogger()
	var out bytes.Buffer

	err := run(context.Background(), []string{"-s", t.TempDir(), "setup.py"}, &out, log)
	require.Error(t, err)
	assert.True(t, extbuild.ErrNoBuilder.Is(err))
	assert.Empty(t, out.String())
}

func TestSmoke(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, smoke(&out))

	rows := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, rows, 10)

	seen := map[int]bool{}
	for _, row := range rows {
		require.True(t, strings.HasSuffix(row, ","), row)
		for _, field := range strings.Split(strings.TrimSuffix(row, ","), ",") {
			v, err := strconv.Atoi(field)
			require.NoError(t, err)
			assert.False(t, seen[v], "%d repeated", v)
			seen[v] = true
		}
	}

	assert.Len(t, seen, 29)
	for v := range seen {
		assert.True(t, (v >= 4 && v <= 11) || (v >= 20 && v <= 40), "%d out of range", v)
	}
}
