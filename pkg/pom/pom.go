// Package pom parses Maven pom.xml project descriptors into a normalized
// in-memory model, resolves ${property} placeholders, and validates
// structural consistency.
//
// # Model
//
// A [Descriptor] is the parsed form of exactly one POM file. Absent scalar
// fields are empty strings: a descriptor without its own groupId or
// artifactId inherits them from an unmodeled parent, so consumers must
// treat missing coordinates as "defer to parent" rather than an error.
// Dependency lists preserve document order and are not deduplicated at
// parse time; duplicate detection is a validation concern.
//
// Descriptors are immutable after parsing. Nothing in this package mutates
// a Descriptor once [ParseFile] has returned it.
//
// # Resolution
//
// [Resolve] substitutes ${name} placeholders against a property map in a
// single pass. There is no fixpoint iteration: a property value that is
// itself a placeholder is inserted verbatim. Cross-file inheritance is
// never attempted — resolution only ever sees the owning descriptor's own
// properties.
package pom

import "strings"

// DefaultPackaging is the packaging assumed when a POM declares none.
const DefaultPackaging = "jar"

// GAV identifies a Maven coordinate (groupId, artifactId, version).
// Any field may be empty when the document omits it.
type GAV struct {
	GroupID    string `json:"groupId,omitempty"`
	ArtifactID string `json:"artifactId,omitempty"`
	Version    string `json:"version,omitempty"`
}

// Coordinate returns the "groupId:artifactId" pair that keys a dependency.
func (g GAV) Coordinate() string {
	return g.GroupID + ":" + g.ArtifactID
}

// String returns the full "groupId:artifactId:version" form.
func (g GAV) String() string {
	return g.GroupID + ":" + g.ArtifactID + ":" + g.Version
}

// Dependency is one <dependency> entry, from either the direct list or the
// dependency-management list. Scope is empty when the document declares
// none; the "compile" default is a display convention, not parser state.
type Dependency struct {
	GAV
	Scope string `json:"scope,omitempty"`
}

// Parent is the optional <parent> reference of a descriptor.
type Parent struct {
	GAV
	RelativePath string `json:"relativePath,omitempty"`
}

// Property is one <properties> child in document order.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Descriptor is the parsed representation of one POM file.
type Descriptor struct {
	GAV
	Packaging   string  `json:"packaging"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	Parent      *Parent `json:"parent,omitempty"`

	// Dependencies and Managed preserve document order, duplicates included.
	Dependencies []Dependency `json:"dependencies,omitempty"`
	Managed      []Dependency `json:"managed,omitempty"`

	// Properties preserve document order; use PropertyMap for lookups.
	Properties []Property `json:"properties,omitempty"`
}

// PropertyMap returns the declared properties as a lookup map for
// [Resolve]. When a name repeats, the later declaration wins.
func (d *Descriptor) PropertyMap() map[string]string {
	if len(d.Properties) == 0 {
		return nil
	}
	m := make(map[string]string, len(d.Properties))
	for _, p := range d.Properties {
		m[p.Name] = p.Value
	}
	return m
}

// ProjectName returns the descriptor's own artifactId, or "unknown" when
// the document omits it. This is the name under which the project appears
// in aggregated output.
func (d *Descriptor) ProjectName() string {
	if d.ArtifactID == "" {
		return "unknown"
	}
	return d.ArtifactID
}

// EffectiveScope returns the dependency scope for display, applying the
// "compile" default that Maven assumes for undeclared scopes.
func (dep Dependency) EffectiveScope() string {
	if strings.TrimSpace(dep.Scope) == "" {
		return "compile"
	}
	return dep.Scope
}
