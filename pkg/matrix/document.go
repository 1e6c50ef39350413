package matrix

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Document is the ordered, serializable form of a dependency matrix.
//
// The JSON format nests three object levels with a string array at the
// bottom:
//
//	{
//	  "com.example": {
//	    "lib": {
//	      "1.9.0": ["app"],
//	      "inherited": ["core"]
//	    }
//	  }
//	}
//
// Group and artifact keys are sorted lexicographically, version keys
// by [CompareVersions], and project arrays lexicographically. Go maps
// cannot carry that version order through encoding/json (object keys
// would be re-sorted as plain strings), so the document keeps explicit
// slices and marshals them itself.
type Document struct {
	Groups []GroupEntry
}

// GroupEntry holds the artifacts of one groupId.
type GroupEntry struct {
	GroupID   string
	Artifacts []ArtifactEntry
}

// ArtifactEntry holds the version cells of one artifactId.
type ArtifactEntry struct {
	ArtifactID string
	Versions   []VersionEntry
}

// VersionEntry lists the projects that use one resolved version.
type VersionEntry struct {
	Version  string
	Projects []string
}

// Document flattens the matrix into its ordered form.
func (m *Matrix) Document() *Document {
	byGroup := make(map[string][]coordinate)
	for coord := range m.cells {
		byGroup[coord.group] = append(byGroup[coord.group], coord)
	}

	doc := &Document{Groups: make([]GroupEntry, 0, len(byGroup))}
	for group, coords := range byGroup {
		entry := GroupEntry{GroupID: group, Artifacts: make([]ArtifactEntry, 0, len(coords))}
		for _, coord := range coords {
			c := m.cells[coord]
			artifact := ArtifactEntry{
				ArtifactID: coord.artifact,
				Versions:   make([]VersionEntry, 0, len(c.versions)),
			}
			for version, projects := range c.versions {
				ve := VersionEntry{Version: version, Projects: make([]string, 0, len(projects))}
				for project := range projects {
					ve.Projects = append(ve.Projects, project)
				}
				artifact.Versions = append(artifact.Versions, ve)
			}
			entry.Artifacts = append(entry.Artifacts, artifact)
		}
		doc.Groups = append(doc.Groups, entry)
	}

	doc.Sort()
	return doc
}

// Sort orders the document: groups and artifacts lexicographically,
// versions by [CompareVersions], projects lexicographically. Sorting
// an already-sorted document is a no-op, so serialization is stable
// across repeated runs.
func (d *Document) Sort() {
	slices.SortFunc(d.Groups, func(a, b GroupEntry) int {
		return strings.Compare(a.GroupID, b.GroupID)
	})
	for gi := range d.Groups {
		g := &d.Groups[gi]
		slices.SortFunc(g.Artifacts, func(a, b ArtifactEntry) int {
			return strings.Compare(a.ArtifactID, b.ArtifactID)
		})
		for ai := range g.Artifacts {
			a := &g.Artifacts[ai]
			slices.SortFunc(a.Versions, func(x, y VersionEntry) int {
				return CompareVersions(x.Version, y.Version)
			})
			for vi := range a.Versions {
				slices.Sort(a.Versions[vi].Projects)
			}
		}
	}
}

// Group returns the entry for groupID, or nil if the document does not
// contain it.
func (d *Document) Group(groupID string) *GroupEntry {
	for i := range d.Groups {
		if d.Groups[i].GroupID == groupID {
			return &d.Groups[i]
		}
	}
	return nil
}

// Counts returns the number of groups, artifacts, and version cells in
// the document.
func (d *Document) Counts() (groups, artifacts, versions int) {
	groups = len(d.Groups)
	for _, g := range d.Groups {
		artifacts += len(g.Artifacts)
		for _, a := range g.Artifacts {
			versions += len(a.Versions)
		}
	}
	return groups, artifacts, versions
}

// MarshalJSON encodes the document as a nested JSON object, preserving
// the slice order of groups, artifacts, and versions.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range d.Groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, g.GroupID, g); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes one group as {artifactId: {version: [projects]}}.
func (g GroupEntry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range g.Artifacts {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, a.ArtifactID, a); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes one artifact as {version: [projects]}.
func (a ArtifactEntry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range a.Versions {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, v.Version, v.Projects); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeMember appends a `"key":value` object member to buf.
func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(v)
	return nil
}

// ReadDocument decodes a matrix document from r, preserving the key
// order of the input. The decoder walks tokens instead of unmarshaling
// into maps, which would lose ordering.
func ReadDocument(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	doc := &Document{}
	for dec.More() {
		groupID, err := stringKey(dec)
		if err != nil {
			return nil, fmt.Errorf("decode group key: %w", err)
		}
		group, err := readGroup(dec)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", groupID, err)
		}
		group.GroupID = groupID
		doc.Groups = append(doc.Groups, group)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	// Anything after the closing brace is not part of the document.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("decode: trailing content after document")
	}
	return doc, nil
}

func readGroup(dec *json.Decoder) (GroupEntry, error) {
	var group GroupEntry
	if err := expectDelim(dec, '{'); err != nil {
		return group, err
	}
	for dec.More() {
		artifactID, err := stringKey(dec)
		if err != nil {
			return group, err
		}
		artifact, err := readArtifact(dec)
		if err != nil {
			return group, fmt.Errorf("artifact %s: %w", artifactID, err)
		}
		artifact.ArtifactID = artifactID
		group.Artifacts = append(group.Artifacts, artifact)
	}
	return group, expectDelim(dec, '}')
}

func readArtifact(dec *json.Decoder) (ArtifactEntry, error) {
	var artifact ArtifactEntry
	if err := expectDelim(dec, '{'); err != nil {
		return artifact, err
	}
	for dec.More() {
		version, err := stringKey(dec)
		if err != nil {
			return artifact, err
		}
		var projects []string
		if err := dec.Decode(&projects); err != nil {
			return artifact, fmt.Errorf("version %s: %w", version, err)
		}
		artifact.Versions = append(artifact.Versions, VersionEntry{Version: version, Projects: projects})
	}
	return artifact, expectDelim(dec, '}')
}

func stringKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected string key, got %v", tok)
	}
	return s, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// ReadDocumentFile reads a matrix document from a JSON file at path.
// This is a convenience wrapper around [ReadDocument] for file-based
// input.
func ReadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}

// WriteDocument encodes a document as two-space-indented JSON and
// writes it to w. The output can be re-read with [ReadDocument] for
// round-trip processing.
func WriteDocument(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportDocument writes a document to a JSON file at path. The write
// is atomic: data goes to a temporary file in the target directory
// first and is renamed into place, so readers never observe a partial
// document.
func ExportDocument(doc *Document, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".matrix-*.json")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if err := WriteDocument(tmp, doc); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
