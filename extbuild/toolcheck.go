package extbuild

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ToolChecker is an optional interface for builders that require external tools.
//
// Before Build the BuilderFactory looks up RequiredTools with MissingTools
// and, when any is absent, reports them in BuildResult.MissingDependencies
// without running the build.
//
//	func (b *CMakeBuilder) RequiredTools() []ToolRequirement {
//	    return []ToolRequirement{
//	        {Name: "cmake", Purpose: "CMake build system"},
//	        {Name: "make", Alternatives: []string{"gmake"}, Purpose: "Build automation tool"},
//	    }
//	}
type ToolChecker interface {
	// RequiredTools returns the list of tools this builder needs.
	RequiredTools() []ToolRequirement

	// CheckTools verifies that all required tools are available. Optional
	// tools don't cause errors if missing.
	CheckTools() error
}

// ToolRequirement describes a build tool dependency.
//
// Tool with alternatives:
//
//	ToolRequirement{
//	    Name:         "gcc",
//	    Alternatives: []string{"clang", "cc"},
//	    Purpose:      "C compiler",
//	}
type ToolRequirement struct {
	// Name is the primary tool binary name (e.g., "cmake", "go").
	Name string

	// Alternatives are other binaries that satisfy this requirement.
	Alternatives []string

	// Optional tools are looked up but never reported missing.
	Optional bool

	// Purpose is a human-readable description of why this tool is needed.
	Purpose string
}

// CheckToolAvailable checks if a tool is available in the system PATH.
func CheckToolAvailable(tool string) error {
	if _, err := execLookPath(tool); err != nil {
		return errors.Errorf("%s not found in PATH", tool)
	}
	return nil
}

// MissingTools returns the required tools of requirements for which neither
// the tool nor any alternative is in PATH, formatted as "name (purpose)".
func MissingTools(requirements []ToolRequirement) []string {
	var missing []string

	for _, req := range requirements {
		if req.Optional {
			continue
		}

		found := CheckToolAvailable(req.Name) == nil
		for _, alt := range req.Alternatives {
			if found {
				break
			}
			found = CheckToolAvailable(alt) == nil
		}

		if !found {
			if req.Purpose != "" {
				missing = append(missing, fmt.Sprintf("%s (%s)", req.Name, req.Purpose))
			} else {
				missing = append(missing, req.Name)
			}
		}
	}
	return missing
}

// CheckRequiredTools verifies all required tools are available.
//
// Single missing tool:
//
//	cmake (CMake build system) not found in PATH
//
// Multiple missing tools:
//
//	missing required tools: cmake (CMake build system), make (Build automation tool)
func CheckRequiredTools(requirements []ToolRequirement) error {
	missing := MissingTools(requirements)
	switch len(missing) {
	case 0:
		return nil
	case 1:
		return errors.Errorf("%s not found in PATH", missing[0])
	}
	return errors.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}
