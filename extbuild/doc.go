// Package extbuild compiles the native leeloo module and assembles an
// installable Python package directory around it.
//
// The package drives an external build system, captures everything the
// tools print, and copies the resulting shared module into a package
// directory with an initializer re-exporting the module's symbols.
//
// # Supported Build Systems
//
// The package includes builders for:
//   - CMakeLists.txt - out-of-source CMake configure followed by make -j
//   - Makefile - in-tree make with PYTHON_VERSION in the environment
//   - go.mod, *.go - Go packages built with -buildmode=c-shared
//   - meson.build - Meson setup and compile (generic preset)
//   - build.zig, *.zig - Zig build (generic preset)
//
// # Basic Usage
//
// Build the module and assemble the package directory:
//
//	factory := extbuild.NewBuilderFactory()
//
//	config := &extbuild.BuildConfig{
//	    SourceDir:     "/path/to/leeloo",
//	    PackageDir:    "/path/to/dist",
//	    PythonVersion: "3.12",
//	    Logger:        logrus.StandardLogger(),
//	}
//
//	pkgDir, result, err := factory.BuildPackage(ctx, config, "CMakeLists.txt")
//
// The package directory then holds:
//
//	pyleeloo/
//	├── pyleeloo.so
//	└── __init__.py
//
// # Architecture
//
//	BuilderFactory
//	├── CMakeBuilder (CMakeLists.txt)
//	├── MakefileBuilder (Makefile, GNUmakefile)
//	├── GoBuilder (go.mod, *.go)
//	└── GenericBuilder
//	    ├── Meson (meson.build)
//	    └── Zig (build.zig, *.zig)
//
// Each builder implements the Builder interface and can:
//   - Detect if it can handle a given file
//   - Build the module, reporting tool output on failure
//   - Clean build artifacts
//
// Builders that implement ToolChecker are checked before the build runs;
// missing tools are reported in BuildResult.MissingDependencies.
//
// # Configuration
//
// BuildConfig can be filled in code or read from YAML with LoadConfigFile.
// Unknown keys in the file are rejected.
package extbuild
