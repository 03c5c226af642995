package extbuild

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// MatchesPattern checks if a filename matches any of the given regex patterns.
//
// Builders use it in CanBuild. Invalid patterns are skipped.
//
//	if MatchesPattern(filename, `CMakeLists\.txt$`) {
//	    // Handle CMake projects
//	}
func MatchesPattern(filename string, patterns ...string) bool {
	for _, pattern := range patterns {
		if matched, _ := regexp.MatchString(pattern, filename); matched {
			return true
		}
	}
	return false
}

// MatchesExtension checks if a filename has any of the given extensions,
// ignoring case. Extensions may be given with or without the leading dot.
//
//	if MatchesExtension(filename, ".so", ".dylib", ".dll") {
//	    // This is a shared module
//	}
func MatchesExtension(filename string, extensions ...string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(strings.ToLower(filename), strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// BuildError creates a build error carrying the tool output.
//
// With error and output:
//
//	CMake build failed: exit status 1
//
//	Build output:
//	-- Configuring incomplete, errors occurred!
//
// Without output only the first line is kept. err may be nil.
func BuildError(builder string, output []string, err error) error {
	prefix := builder + " build failed"
	if err != nil {
		prefix += ": " + err.Error()
	}

	if outputStr := strings.Join(output, "\n"); outputStr != "" {
		return errors.Errorf("%s\n\nBuild output:\n%s", prefix, outputStr)
	}
	return errors.New(prefix)
}

// findModules globs patterns in each of dirs and returns the absolute
// paths of the regular files found, sorted and without duplicates.
func findModules(dirs []string, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var modules []string

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		for _, pattern := range patterns {
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				return nil, errors.Wrapf(err, "failed to glob pattern %s in %s", pattern, dir)
			}
			for _, match := range matches {
				if info, err := os.Stat(match); err != nil || !info.Mode().IsRegular() {
					continue
				}
				if _, ok := seen[match]; ok {
					continue
				}
				seen[match] = struct{}{}
				modules = append(modules, match)
			}
		}
	}

	sort.Strings(modules)
	return modules, nil
}

// sharedModulePatterns are the file names a native module may have.
var sharedModulePatterns = []string{"*.so", "*.dylib", "*.dll"}
