package pom

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pomgrid/pomgrid/pkg/errors"
)

// Wire-format structs for decoding. Element names match local names only,
// so the Maven namespace (or its absence) is irrelevant.
type pomDocument struct {
	GroupID      string          `xml:"groupId"`
	ArtifactID   string          `xml:"artifactId"`
	Version      string          `xml:"version"`
	Packaging    string          `xml:"packaging"`
	Name         string          `xml:"name"`
	Description  string          `xml:"description"`
	Parent       *pomParent      `xml:"parent"`
	Dependencies []pomDependency `xml:"dependencies>dependency"`
	Managed      []pomDependency `xml:"dependencyManagement>dependencies>dependency"`
	Properties   pomProperties   `xml:"properties"`
}

type pomParent struct {
	GroupID      string `xml:"groupId"`
	ArtifactID   string `xml:"artifactId"`
	Version      string `xml:"version"`
	RelativePath string `xml:"relativePath"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
}

type pomProperties struct {
	Entries []pomProperty `xml:",any"`
}

type pomProperty struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// ParseFile reads one pom.xml from disk and parses it into a Descriptor.
//
// Failures map onto distinct error codes: a missing file reports
// ErrCodeNotFound without ever opening it, an unreadable file reports
// ErrCodePermissionDenied, broken XML reports ErrCodeMalformedXML with the
// decoder's diagnostic, and a well-formed document whose root element is
// not a <project> (any namespace) reports ErrCodeNotAPom. Every message
// embeds path so failures stay attributable in multi-file runs.
func ParseFile(path string) (*Descriptor, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "POM file not found: %s", path)
		}
		if os.IsPermission(err) {
			return nil, errors.Wrap(errors.ErrCodePermissionDenied, err, "POM file not accessible: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeParseFailure, err, "failed to stat %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, errors.Wrap(errors.ErrCodePermissionDenied, err, "POM file not readable: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeParseFailure, err, "failed to read %s", path)
	}

	return parse(data, path)
}

// parse decodes a complete POM document from data. The whole document is
// checked for well-formedness before the root tag is inspected, so a file
// that is both truncated and mis-rooted reports the XML error.
func parse(data []byte, path string) (*Descriptor, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	root, err := firstElement(dec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedXML, err, "failed to parse %s", path)
	}

	var doc pomDocument
	if err := dec.DecodeElement(&doc, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedXML, err, "failed to parse %s", path)
	}
	if err := checkTrailing(dec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedXML, err, "failed to parse %s", path)
	}

	if !strings.HasSuffix(root.Name.Local, "project") {
		return nil, errors.New(errors.ErrCodeNotAPom, "not a POM file (root tag <%s>): %s", root.Name.Local, path)
	}

	return newDescriptor(&doc), nil
}

// firstElement scans past the prolog to the document's root element.
func firstElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

// checkTrailing rejects non-whitespace content after the root element,
// which a conforming XML parser treats as a syntax error.
func checkTrailing(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("content after document element <%s>", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("content after document element")
			}
		}
	}
}

func newDescriptor(doc *pomDocument) *Descriptor {
	d := &Descriptor{
		GAV: GAV{
			GroupID:    strings.TrimSpace(doc.GroupID),
			ArtifactID: strings.TrimSpace(doc.ArtifactID),
			Version:    strings.TrimSpace(doc.Version),
		},
		Packaging:   strings.TrimSpace(doc.Packaging),
		Name:        strings.TrimSpace(doc.Name),
		Description: strings.TrimSpace(doc.Description),
	}
	if d.Packaging == "" {
		d.Packaging = DefaultPackaging
	}

	if doc.Parent != nil {
		d.Parent = &Parent{
			GAV: GAV{
				GroupID:    strings.TrimSpace(doc.Parent.GroupID),
				ArtifactID: strings.TrimSpace(doc.Parent.ArtifactID),
				Version:    strings.TrimSpace(doc.Parent.Version),
			},
			RelativePath: strings.TrimSpace(doc.Parent.RelativePath),
		}
	}

	d.Dependencies = newDependencies(doc.Dependencies)
	d.Managed = newDependencies(doc.Managed)

	for _, p := range doc.Properties.Entries {
		value := strings.TrimSpace(p.Value)
		if value == "" {
			continue
		}
		d.Properties = append(d.Properties, Property{Name: p.XMLName.Local, Value: value})
	}

	return d
}

func newDependencies(deps []pomDependency) []Dependency {
	if len(deps) == 0 {
		return nil
	}
	out := make([]Dependency, 0, len(deps))
	for _, dep := range deps {
		out = append(out, Dependency{
			GAV: GAV{
				GroupID:    strings.TrimSpace(dep.GroupID),
				ArtifactID: strings.TrimSpace(dep.ArtifactID),
				Version:    strings.TrimSpace(dep.Version),
			},
			Scope: strings.TrimSpace(dep.Scope),
		})
	}
	return out
}
