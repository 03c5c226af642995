package extbuild

import "context"

// Builder defines the interface that all extension builders must implement.
//
// Each builder drives one build system (CMake, make, go build, ...) and
// is selected by the BuilderFactory from the name of the file that
// describes the build.
//
// # Builder Lifecycle
//
//  1. CanBuild() - Factory calls this to find the right builder for an extension file
//  2. Build() - Factory calls this to compile the module
//  3. Clean() - Optional cleanup of build artifacts
//
// # Example Implementation
//
//	type NinjaBuilder struct{}
//
//	func (b *NinjaBuilder) Name() string { return "Ninja" }
//
//	func (b *NinjaBuilder) CanBuild(extensionFile string) bool {
//	    return MatchesPattern(extensionFile, `build\.ninja$`)
//	}
//
//	func (b *NinjaBuilder) Build(ctx context.Context, config *BuildConfig, extensionFile string) (*BuildResult, error) {
//	    return runCommonBuild(ctx, config, extensionFile, CommonBuildSteps{...})
//	}
//
// # Thread Safety
//
// Builder implementations should be stateless. The same builder may build
// several extensions concurrently when BuildConfig.Jobs is above one.
type Builder interface {
	// Name returns the human-readable name of this builder, used in
	// errors and logs. Examples: "CMake", "Makefile", "Go"
	Name() string

	// CanBuild checks if this builder can handle the given extension file,
	// e.g. "CMakeLists.txt" or "src/Makefile".
	CanBuild(extensionFile string) bool

	// Build compiles the module described by extensionFile, a path
	// relative to config.SourceDir.
	//
	// Returns:
	//   - BuildResult with Success=true and Modules on success
	//   - BuildResult with Success=false and Error on failure
	Build(ctx context.Context, config *BuildConfig, extensionFile string) (*BuildResult, error)

	// Clean removes build artifacts. Builders without a clean step
	// return nil.
	Clean(ctx context.Context, config *BuildConfig, extensionFile string) error
}
