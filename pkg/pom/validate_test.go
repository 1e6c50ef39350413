package pom

import (
	"strings"
	"testing"
)

func dep(group, artifact, version string) Dependency {
	return Dependency{GAV: GAV{GroupID: group, ArtifactID: artifact, Version: version}}
}

func TestValidateCleanDescriptor(t *testing.T) {
	d := &Descriptor{
		GAV:       GAV{GroupID: "com.example", ArtifactID: "app", Version: "1.0.0"},
		Packaging: "jar",
		Dependencies: []Dependency{
			dep("commons-io", "commons-io", "2.20.0"),
			dep("com.h2database", "h2", "2.2.224"),
		},
		Properties: []Property{{Name: "java.version", Value: "17"}},
	}

	if issues := Validate(d, "pom.xml"); len(issues) != 0 {
		t.Errorf("Validate() = %v, want no issues", issues)
	}
}

func TestValidateMissingCoordinates(t *testing.T) {
	d := &Descriptor{Packaging: "jar"}
	issues := Validate(d, "a/pom.xml")

	want := []string{
		"Missing groupId in a/pom.xml",
		"Missing artifactId in a/pom.xml",
		"Missing version in a/pom.xml (non-parent POM)",
	}
	if len(issues) != len(want) {
		t.Fatalf("Validate() = %v, want %d issues", issues, len(want))
	}
	for i := range want {
		if issues[i] != want[i] {
			t.Errorf("issues[%d] = %q, want %q", i, issues[i], want[i])
		}
	}
}

func TestValidatePomPackagingSkipsVersionCheck(t *testing.T) {
	d := &Descriptor{
		GAV:       GAV{GroupID: "com.example", ArtifactID: "parent"},
		Packaging: "pom",
	}
	for _, issue := range Validate(d, "pom.xml") {
		if strings.Contains(issue, "Missing version") {
			t.Errorf("aggregator POM flagged for missing version: %q", issue)
		}
	}
}

func TestValidateDependencyWithoutVersion(t *testing.T) {
	base := GAV{GroupID: "com.example", ArtifactID: "app", Version: "1.0.0"}

	t.Run("no parent", func(t *testing.T) {
		d := &Descriptor{
			GAV:          base,
			Packaging:    "jar",
			Dependencies: []Dependency{dep("org.projectlombok", "lombok", "")},
		}
		issues := Validate(d, "pom.xml")
		if len(issues) != 1 {
			t.Fatalf("Validate() = %v, want 1 issue", issues)
		}
		if want := "Dependency org.projectlombok:lombok has no version and no parent in pom.xml"; issues[0] != want {
			t.Errorf("issues[0] = %q, want %q", issues[0], want)
		}
	})

	t.Run("parent declared", func(t *testing.T) {
		d := &Descriptor{
			GAV:          base,
			Packaging:    "jar",
			Parent:       &Parent{GAV: GAV{GroupID: "com.example", ArtifactID: "parent", Version: "1.0.0"}},
			Dependencies: []Dependency{dep("org.projectlombok", "lombok", "")},
		}
		if issues := Validate(d, "pom.xml"); len(issues) != 0 {
			t.Errorf("Validate() = %v, want no issues (version may come from parent)", issues)
		}
	})
}

func TestValidateSelfReferentialDependency(t *testing.T) {
	d := &Descriptor{
		GAV:          GAV{GroupID: "com.example", ArtifactID: "app", Version: "1.0.0"},
		Packaging:    "jar",
		Dependencies: []Dependency{dep("com.example", "app", "1.0.0")},
	}
	issues := Validate(d, "pom.xml")
	if len(issues) != 1 {
		t.Fatalf("Validate() = %v, want 1 issue", issues)
	}
	if want := "Self-referential dependency com.example:app in pom.xml"; issues[0] != want {
		t.Errorf("issues[0] = %q, want %q", issues[0], want)
	}
}

func TestValidateSelfCheckNeedsOwnCoordinates(t *testing.T) {
	// A descriptor missing its own groupId cannot be self-referenced,
	// even if a dependency's empty fields would compare equal.
	d := &Descriptor{
		GAV:          GAV{ArtifactID: "app", Version: "1.0.0"},
		Packaging:    "jar",
		Dependencies: []Dependency{dep("", "app", "1.0.0")},
	}
	for _, issue := range Validate(d, "pom.xml") {
		if strings.Contains(issue, "Self-referential") {
			t.Errorf("unexpected self-reference issue: %q", issue)
		}
	}
}

func TestValidateDuplicateDependencies(t *testing.T) {
	d := &Descriptor{
		GAV:       GAV{GroupID: "com.example", ArtifactID: "app", Version: "1.0.0"},
		Packaging: "jar",
		Dependencies: []Dependency{
			dep("commons-io", "commons-io", "2.20.0"),
			dep("com.h2database", "h2", "2.2.224"),
			dep("commons-io", "commons-io", "2.19.0"),
			dep("commons-io", "commons-io", "2.18.0"),
		},
	}
	issues := Validate(d, "pom.xml")

	var dupes []string
	for _, issue := range issues {
		if strings.Contains(issue, "Duplicate dependency") {
			dupes = append(dupes, issue)
		}
	}
	// Every occurrence after the first is flagged, versions notwithstanding.
	if len(dupes) != 2 {
		t.Fatalf("duplicate issues = %v, want 2", dupes)
	}
	for _, issue := range dupes {
		if want := "Duplicate dependency commons-io:commons-io in pom.xml"; issue != want {
			t.Errorf("issue = %q, want %q", issue, want)
		}
	}
}

func TestValidateUnresolvableProperties(t *testing.T) {
	d := &Descriptor{
		GAV:       GAV{GroupID: "com.example", ArtifactID: "app", Version: "1.0.0"},
		Packaging: "jar",
		Properties: []Property{
			{Name: "known", Value: "1.2.3"},
			{Name: "uses.known", Value: "${known}-suffix"},
			{Name: "uses.unknown", Value: "${does.not.exist}"},
			{Name: "partial", Value: "${known}-${does.not.exist}"},
		},
	}
	issues := Validate(d, "pom.xml")

	if len(issues) != 1 {
		t.Fatalf("Validate() = %v, want 1 issue", issues)
	}
	if want := "Unresolvable property uses.unknown=${does.not.exist} in pom.xml"; issues[0] != want {
		t.Errorf("issues[0] = %q, want %q", issues[0], want)
	}
}

func TestValidateIssueOrdering(t *testing.T) {
	// Checks run in a fixed order: coordinates, versionless deps,
	// self-references, duplicates, then properties.
	d := &Descriptor{
		GAV:       GAV{ArtifactID: "app", Version: "1.0.0"},
		Packaging: "jar",
		Dependencies: []Dependency{
			dep("g", "a", ""),
			dep("g", "a", ""),
		},
		Properties: []Property{{Name: "bad", Value: "${nope}"}},
	}
	issues := Validate(d, "pom.xml")

	want := []string{
		"Missing groupId in pom.xml",
		"Dependency g:a has no version and no parent in pom.xml",
		"Dependency g:a has no version and no parent in pom.xml",
		"Duplicate dependency g:a in pom.xml",
		"Unresolvable property bad=${nope} in pom.xml",
	}
	if len(issues) != len(want) {
		t.Fatalf("Validate() = %v, want %d issues", issues, len(want))
	}
	for i := range want {
		if issues[i] != want[i] {
			t.Errorf("issues[%d] = %q, want %q", i, issues[i], want[i])
		}
	}
}
