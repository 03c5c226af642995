package extbuild

import (
	"context"
	"path/filepath"
	"strings"
)

// GoBuilder compiles a Go package with cgo exports into a shared module.
//
//	go build -buildmode=c-shared -o <ModuleName>.so
//
// The module is written next to the Go sources.
type GoBuilder struct{}

// Name returns the builder name
func (b *GoBuilder) Name() string {
	return "Go"
}

// RequiredTools returns the tools needed for Go builds
func (b *GoBuilder) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{
			Name:    "go",
			Purpose: "Go compiler and toolchain",
		},
		{
			Name:         "gcc",
			Alternatives: []string{"clang", "cc"},
			Purpose:      "C compiler (required for cgo)",
		},
	}
}

// CheckTools verifies that the Go toolchain is available
func (b *GoBuilder) CheckTools() error {
	return CheckRequiredTools(b.RequiredTools())
}

// CanBuild checks if this builder can handle the extension file
func (b *GoBuilder) CanBuild(extensionFile string) bool {
	ext := strings.ToLower(filepath.Ext(extensionFile))
	base := strings.ToLower(filepath.Base(extensionFile))
	return ext == ".go" || base == "go.mod"
}

// Build compiles the package into a shared module
func (b *GoBuilder) Build(ctx context.Context, config *BuildConfig, extensionFile string) (*BuildResult, error) {
	return runCommonBuild(ctx, config, extensionFile, CommonBuildSteps{
		BuildFunc: b.runGoBuild,
		FindFunc:  b.findModules(config),
	})
}

// Clean runs go clean in the package directory
func (b *GoBuilder) Clean(ctx context.Context, config *BuildConfig, extensionFile string) error {
	dir := filepath.Dir(filepath.Join(config.SourceDir, extensionFile))
	_ = runCommand(ctx, config, &BuildResult{}, b.Name(), dir, nil, "go", "clean")
	return nil
}

func (b *GoBuilder) runGoBuild(ctx context.Context, config *BuildConfig, dirs BuildDirs, result *BuildResult) error {
	args := []string{"build", "-buildmode=c-shared", "-o", moduleFile(config)}
	args = append(args, config.BuildArgs...)

	return runCommand(ctx, config, result, b.Name(), dirs.Build, []string{"CGO_ENABLED=1"}, "go", args...)
}

func (b *GoBuilder) findModules(config *BuildConfig) func(BuildDirs) ([]string, error) {
	return func(dirs BuildDirs) ([]string, error) {
		return findModules([]string{dirs.Build}, []string{moduleFile(config)})
	}
}

func moduleFile(config *BuildConfig) string {
	return config.moduleName() + ".so"
}
