package severity

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/openkraft/inspections/internal/domain"
	"gopkg.in/yaml.v3"
)

// Section and field names are fixed by existing configuration files.
const (
	sectionErrors   = "errors"
	sectionWarnings = "warnings"
	sectionInfos    = "infos"
	identifierField = "inspection-identifier"
)

var tiers = []struct {
	section string
	entry   string
	sev     domain.Severity
}{
	{sectionErrors, "error", domain.SeverityError},
	{sectionWarnings, "warning", domain.SeverityWarning},
	{sectionInfos, "info", domain.SeverityInfo},
}

// Loader implements domain.ClassificationLoader for XML and YAML documents.
type Loader struct{}

// New creates a Loader.
func New() *Loader { return &Loader{} }

// Load reads, substitutes and parses the severity document at src.Path.
func (l *Loader) Load(src domain.SeveritySource) (domain.SeverityClassification, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		msg := "cannot be read"
		if errors.Is(err, os.ErrNotExist) {
			msg = "not found"
		}
		return domain.SeverityClassification{}, &domain.ConfigParseError{Source: src.Path, Msg: msg, Err: err}
	}
	return Parse(src.Path, Substitute(data, src.Properties))
}

// Parse decodes an already-substituted document. The format is chosen by
// the extension of name: .yaml and .yml are YAML, anything else is XML.
func Parse(name string, data []byte) (domain.SeverityClassification, error) {
	var (
		sections map[string][]string
		err      error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		sections, err = parseYAML(data)
	default:
		sections, err = parseXML(data)
	}
	if err != nil {
		return domain.SeverityClassification{}, &domain.ConfigParseError{Source: name, Err: err}
	}

	seen := make(map[string]string)
	for _, t := range tiers {
		ids, ok := sections[t.section]
		if !ok {
			return domain.SeverityClassification{}, &domain.ConfigParseError{
				Source: name,
				Msg:    fmt.Sprintf("missing required section %q", t.section),
			}
		}
		for _, id := range ids {
			if prev, dup := seen[id]; dup && prev != t.section {
				return domain.SeverityClassification{}, &domain.ConfigParseError{
					Source: name,
					Msg:    fmt.Sprintf("inspection %q is listed in both %q and %q", id, prev, t.section),
				}
			}
			seen[id] = t.section
		}
	}

	return domain.NewSeverityClassification(
		sections[sectionErrors],
		sections[sectionWarnings],
		sections[sectionInfos],
	), nil
}

var propertyToken = regexp.MustCompile(`\$\{([A-Za-z0-9_.\-]+)\}`)

// Substitute replaces ${key} tokens whose key is in props. Unknown tokens
// are left as they are.
func Substitute(data []byte, props map[string]string) []byte {
	if len(props) == 0 {
		return data
	}
	return propertyToken.ReplaceAllFunc(data, func(tok []byte) []byte {
		key := string(tok[2 : len(tok)-1])
		if v, ok := props[key]; ok {
			return []byte(v)
		}
		return tok
	})
}

// parseXML walks the token stream of an <inspections> document so that
// sections can be told apart from absent ones and entry order is kept.
func parseXML(data []byte) (map[string][]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	sections := make(map[string][]string)
	var (
		depth   int
		rootSet bool
		current string
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 1:
				if t.Name.Local != "inspections" {
					return nil, fmt.Errorf("root element must be <inspections>, got <%s>", t.Name.Local)
				}
				rootSet = true
			case 2:
				if !isSection(t.Name.Local) {
					return nil, fmt.Errorf("unknown section <%s>", t.Name.Local)
				}
				if _, dup := sections[t.Name.Local]; dup {
					return nil, fmt.Errorf("section <%s> appears more than once", t.Name.Local)
				}
				current = t.Name.Local
				sections[current] = []string{}
			case 3:
				want := entryName(current)
				if t.Name.Local != want {
					return nil, fmt.Errorf("unexpected <%s> in <%s> (expected <%s>)", t.Name.Local, current, want)
				}
				id := attr(t, identifierField)
				if id == "" {
					return nil, fmt.Errorf("<%s> in <%s> is missing the %s attribute", want, current, identifierField)
				}
				sections[current] = append(sections[current], id)
			}
		case xml.EndElement:
			if depth == 2 {
				current = ""
			}
			depth--
		}
	}
	if !rootSet {
		return nil, errors.New("empty document")
	}
	return sections, nil
}

type yamlEntry struct {
	ID string `yaml:"inspection-identifier"`
}

func parseYAML(data []byte) (map[string][]string, error) {
	var raw map[string][]yamlEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed YAML: %w", err)
	}
	if raw == nil {
		return nil, errors.New("empty document")
	}

	sections := make(map[string][]string, len(raw))
	for name, entries := range raw {
		if !isSection(name) {
			return nil, fmt.Errorf("unknown section %q", name)
		}
		ids := make([]string, 0, len(entries))
		for i, e := range entries {
			id := strings.TrimSpace(e.ID)
			if id == "" {
				return nil, fmt.Errorf("%s[%d] is missing %s", name, i, identifierField)
			}
			ids = append(ids, id)
		}
		sections[name] = ids
	}
	return sections, nil
}

func isSection(name string) bool {
	return name == sectionErrors || name == sectionWarnings || name == sectionInfos
}

func entryName(section string) string {
	for _, t := range tiers {
		if t.section == section {
			return t.entry
		}
	}
	return ""
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}
