package matrix

import (
	"slices"
	"testing"

	"github.com/pomgrid/pomgrid/pkg/pom"
)

// versionsOf returns version→projects for one artifact cell, or nil
// when the cell is absent.
func versionsOf(doc *Document, group, artifact string) map[string][]string {
	g := doc.Group(group)
	if g == nil {
		return nil
	}
	for _, a := range g.Artifacts {
		if a.ArtifactID != artifact {
			continue
		}
		out := make(map[string][]string, len(a.Versions))
		for _, v := range a.Versions {
			out[v.Version] = v.Projects
		}
		return out
	}
	return nil
}

func TestAggregateTwoProjects(t *testing.T) {
	app := &pom.Descriptor{
		GAV: pom.GAV{GroupID: "com.example", ArtifactID: "app", Version: "1.0"},
		Dependencies: []pom.Dependency{
			{GAV: pom.GAV{GroupID: "com.foo", ArtifactID: "bar", Version: "${v}"}},
		},
		Properties: []pom.Property{{Name: "v", Value: "1.0"}},
	}
	lib := &pom.Descriptor{
		GAV: pom.GAV{GroupID: "com.example", ArtifactID: "lib", Version: "1.0"},
		Dependencies: []pom.Dependency{
			{GAV: pom.GAV{GroupID: "com.foo", ArtifactID: "bar", Version: "2.0"}},
		},
	}

	doc := Aggregate([]*pom.Descriptor{app, lib}).Document()

	got := versionsOf(doc, "com.foo", "bar")
	if got == nil {
		t.Fatal("cell com.foo:bar missing")
	}
	if !slices.Equal(got["1.0"], []string{"app"}) {
		t.Errorf(`versions["1.0"] = %v, want [app]`, got["1.0"])
	}
	if !slices.Equal(got["2.0"], []string{"lib"}) {
		t.Errorf(`versions["2.0"] = %v, want [lib]`, got["2.0"])
	}
}

func TestFoldInheritedVersion(t *testing.T) {
	d := &pom.Descriptor{
		GAV: pom.GAV{GroupID: "com.example", ArtifactID: "app"},
		Dependencies: []pom.Dependency{
			{GAV: pom.GAV{GroupID: "org.slf4j", ArtifactID: "slf4j-api"}},
		},
	}

	doc := Aggregate([]*pom.Descriptor{d}).Document()

	got := versionsOf(doc, "org.slf4j", "slf4j-api")
	if !slices.Equal(got[VersionInherited], []string{"app"}) {
		t.Errorf("versions[inherited] = %v, want [app]", got[VersionInherited])
	}
}

func TestFoldUnresolvedPlaceholderKept(t *testing.T) {
	d := &pom.Descriptor{
		GAV: pom.GAV{ArtifactID: "app"},
		Dependencies: []pom.Dependency{
			{GAV: pom.GAV{GroupID: "com.foo", ArtifactID: "bar", Version: "${rev}"}},
		},
	}

	doc := Aggregate([]*pom.Descriptor{d}).Document()

	got := versionsOf(doc, "com.foo", "bar")
	if !slices.Equal(got["${rev}"], []string{"app"}) {
		t.Errorf(`versions["${rev}"] = %v, want [app]`, got["${rev}"])
	}
}

func TestFoldSkipsIncompleteDependencies(t *testing.T) {
	d := &pom.Descriptor{
		GAV: pom.GAV{ArtifactID: "app"},
		Dependencies: []pom.Dependency{
			{GAV: pom.GAV{GroupID: "", ArtifactID: "bar", Version: "1.0"}},
			{GAV: pom.GAV{GroupID: "com.foo", ArtifactID: "", Version: "1.0"}},
		},
	}

	m := Aggregate([]*pom.Descriptor{d})
	if !m.Empty() {
		t.Errorf("matrix should be empty, got %d groups", len(m.Document().Groups))
	}
}

func TestFoldMissingProjectName(t *testing.T) {
	d := &pom.Descriptor{
		Dependencies: []pom.Dependency{
			{GAV: pom.GAV{GroupID: "com.foo", ArtifactID: "bar", Version: "1.0"}},
		},
	}

	doc := Aggregate([]*pom.Descriptor{d}).Document()

	got := versionsOf(doc, "com.foo", "bar")
	if !slices.Equal(got["1.0"], []string{"unknown"}) {
		t.Errorf(`versions["1.0"] = %v, want [unknown]`, got["1.0"])
	}
}

func TestFoldManagedDependencies(t *testing.T) {
	d := &pom.Descriptor{
		GAV: pom.GAV{ArtifactID: "parent"},
		Managed: []pom.Dependency{
			{GAV: pom.GAV{GroupID: "com.foo", ArtifactID: "bar", Version: "${v}"}},
		},
		Properties: []pom.Property{{Name: "v", Value: "3.1.4"}},
	}

	doc := Aggregate([]*pom.Descriptor{d}).Document()

	got := versionsOf(doc, "com.foo", "bar")
	if !slices.Equal(got["3.1.4"], []string{"parent"}) {
		t.Errorf(`versions["3.1.4"] = %v, want [parent]`, got["3.1.4"])
	}
}

func TestFoldDirectAndManagedShareCell(t *testing.T) {
	d := &pom.Descriptor{
		GAV: pom.GAV{ArtifactID: "app"},
		Dependencies: []pom.Dependency{
			{GAV: pom.GAV{GroupID: "com.foo", ArtifactID: "bar", Version: "1.0"}},
		},
		Managed: []pom.Dependency{
			{GAV: pom.GAV{GroupID: "com.foo", ArtifactID: "bar", Version: "2.0"}},
		},
	}

	doc := Aggregate([]*pom.Descriptor{d}).Document()

	got := versionsOf(doc, "com.foo", "bar")
	if len(got) != 2 {
		t.Fatalf("versions = %v, want two entries", got)
	}
	if !slices.Equal(got["1.0"], []string{"app"}) || !slices.Equal(got["2.0"], []string{"app"}) {
		t.Errorf("versions = %v, want app under both 1.0 and 2.0", got)
	}
}

func TestAddDeduplicatesProjects(t *testing.T) {
	m := New()
	m.Add("com.foo", "bar", "1.0", "app")
	m.Add("com.foo", "bar", "1.0", "app")
	m.Add("com.foo", "bar", "1.0", "web")

	got := versionsOf(m.Document(), "com.foo", "bar")
	if !slices.Equal(got["1.0"], []string{"app", "web"}) {
		t.Errorf(`versions["1.0"] = %v, want [app web]`, got["1.0"])
	}
}

func TestEmptyMatrix(t *testing.T) {
	m := New()
	if !m.Empty() {
		t.Error("new matrix should be empty")
	}

	doc := m.Document()
	if len(doc.Groups) != 0 {
		t.Errorf("empty matrix document has %d groups", len(doc.Groups))
	}

	m.Add("g", "a", "1.0", "p")
	if m.Empty() {
		t.Error("matrix with a cell should not be empty")
	}
}
