package pom

import (
	"fmt"
	"strings"
)

// Validate runs structural consistency checks against a parsed descriptor
// and returns one human-readable issue per finding, each embedding the
// offending value and path. Findings are advisory: validation never fails
// and an issue-laden descriptor still aggregates normally.
//
// Checks run in a fixed order, and within each check issues follow
// document order, so output is deterministic for a given file:
//
//  1. missing groupId
//  2. missing artifactId
//  3. missing version, unless packaging is "pom"
//  4. direct dependencies without a version, unless a <parent> is declared
//  5. dependencies on the project's own coordinates
//  6. duplicate direct dependencies (every occurrence after the first)
//  7. property values whose ${...} placeholders cannot be resolved from
//     the file's own properties
func Validate(d *Descriptor, path string) []string {
	var issues []string

	if d.GroupID == "" {
		issues = append(issues, fmt.Sprintf("Missing groupId in %s", path))
	}
	if d.ArtifactID == "" {
		issues = append(issues, fmt.Sprintf("Missing artifactId in %s", path))
	}
	if d.Version == "" && d.Packaging != "pom" {
		issues = append(issues, fmt.Sprintf("Missing version in %s (non-parent POM)", path))
	}

	if d.Parent == nil {
		for _, dep := range d.Dependencies {
			if dep.Version == "" {
				issues = append(issues, fmt.Sprintf("Dependency %s has no version and no parent in %s", dep.Coordinate(), path))
			}
		}
	}

	if d.GroupID != "" && d.ArtifactID != "" {
		for _, dep := range d.Dependencies {
			if dep.GroupID == d.GroupID && dep.ArtifactID == d.ArtifactID {
				issues = append(issues, fmt.Sprintf("Self-referential dependency %s in %s", dep.Coordinate(), path))
			}
		}
	}

	seen := make(map[string]bool, len(d.Dependencies))
	for _, dep := range d.Dependencies {
		key := dep.Coordinate()
		if seen[key] {
			issues = append(issues, fmt.Sprintf("Duplicate dependency %s in %s", key, path))
		}
		seen[key] = true
	}

	props := d.PropertyMap()
	for _, p := range d.Properties {
		if !strings.Contains(p.Value, "${") {
			continue
		}
		if Resolve(p.Value, props) == p.Value {
			issues = append(issues, fmt.Sprintf("Unresolvable property %s=%s in %s", p.Name, p.Value, path))
		}
	}

	return issues
}
