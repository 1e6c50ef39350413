// Package matrix aggregates parsed POM descriptors into a dependency
// matrix: group → artifact → resolved version → set of projects that
// declare it. The matrix is an internal accumulator; Document flattens
// it into the ordered, serializable form.
package matrix

import "github.com/pomgrid/pomgrid/pkg/pom"

// VersionInherited marks a dependency that declares no version of its
// own and relies on a parent POM or dependency management.
const VersionInherited = "inherited"

// coordinate identifies one artifact cell in the matrix.
type coordinate struct {
	group    string
	artifact string
}

// cell holds the version→projects sets for one artifact.
type cell struct {
	versions map[string]map[string]struct{}
}

// Matrix accumulates dependency usage across descriptors. The zero
// value is not usable; construct with New.
type Matrix struct {
	cells map[coordinate]*cell
}

// New creates an empty matrix.
func New() *Matrix {
	return &Matrix{cells: make(map[coordinate]*cell)}
}

// Aggregate folds all descriptors into a fresh matrix.
func Aggregate(descriptors []*pom.Descriptor) *Matrix {
	m := New()
	for _, d := range descriptors {
		m.Fold(d)
	}
	return m
}

// Fold records every dependency of the descriptor, direct entries
// first and managed entries second. Dependencies without a groupId or
// artifactId are skipped. A missing version becomes VersionInherited;
// declared versions have their property placeholders resolved against
// the descriptor's own properties.
func (m *Matrix) Fold(d *pom.Descriptor) {
	project := d.ProjectName()
	props := d.PropertyMap()

	for _, dep := range d.Dependencies {
		m.fold(dep, project, props)
	}
	for _, dep := range d.Managed {
		m.fold(dep, project, props)
	}
}

func (m *Matrix) fold(dep pom.Dependency, project string, props map[string]string) {
	if dep.GroupID == "" || dep.ArtifactID == "" {
		return
	}
	version := VersionInherited
	if dep.Version != "" {
		version = pom.Resolve(dep.Version, props)
	}
	m.Add(dep.GroupID, dep.ArtifactID, version, project)
}

// Add records that project uses version of group:artifact. Cells and
// version sets are created on first use.
func (m *Matrix) Add(group, artifact, version, project string) {
	coord := coordinate{group: group, artifact: artifact}
	c := m.cells[coord]
	if c == nil {
		c = &cell{versions: make(map[string]map[string]struct{})}
		m.cells[coord] = c
	}

	projects := c.versions[version]
	if projects == nil {
		projects = make(map[string]struct{})
		c.versions[version] = projects
	}
	projects[project] = struct{}{}
}

// Empty reports whether the matrix has no cells.
func (m *Matrix) Empty() bool {
	return len(m.cells) == 0
}
