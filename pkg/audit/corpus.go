package audit

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"barton-hq/meridian/pkg/compliance"
	"barton-hq/meridian/pkg/envelope"
	"barton-hq/meridian/pkg/numbering"
)

// DefaultPatterns are the glob patterns Discover falls back to when none
// are configured.
var DefaultPatterns = []string{"**/*.yaml", "**/*.yml"}

// Document is one corpus file: the identifiers and envelopes a source
// contributes to an enforcement run.
type Document struct {
	Identifiers []IdentifierEntry `yaml:"identifiers"`
	Envelopes   []EnvelopeEntry   `yaml:"envelopes"`
}

// IdentifierEntry is one identifiers list item. The short form is a bare
// identifier string, parsed under the Barton grammar. The long form is a
// mapping with a code, an optional grammar, and optional pre-existing
// sibling sequences the batch cannot see on its own.
type IdentifierEntry struct {
	Code     string
	Grammar  numbering.Grammar
	Siblings []int

	rawGrammar string
	line       int
}

// UnmarshalYAML accepts both entry forms and keeps the source line for
// load diagnostics. Grammar resolution happens after the decode, where
// the line can be attached to the error.
func (e *IdentifierEntry) UnmarshalYAML(value *yaml.Node) error {
	e.line = value.Line

	if value.Kind == yaml.ScalarNode {
		e.Code = value.Value
		return nil
	}

	var p struct {
		Code     string `yaml:"code"`
		Grammar  string `yaml:"grammar"`
		Siblings []int  `yaml:"siblings"`
	}
	if err := value.Decode(&p); err != nil {
		return err
	}
	e.Code = p.Code
	e.rawGrammar = p.Grammar
	e.Siblings = p.Siblings
	return nil
}

// EnvelopeEntry is one envelopes list item, carrying the canonical seven
// fields. Identifier references inside the envelope are evaluated by the
// rules, not at load time.
type EnvelopeEntry struct {
	Envelope envelope.Envelope

	line int
}

// UnmarshalYAML decodes the envelope and keeps the source line.
func (e *EnvelopeEntry) UnmarshalYAML(value *yaml.Node) error {
	e.line = value.Line
	return value.Decode(&e.Envelope)
}

// LoadFile reads and parses one corpus file. Shape defects abort the load
// with a *CorpusError; content defects become subjects and surface as
// findings instead.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CorpusError{Path: path, Message: "reading corpus file", Err: err}
	}
	doc, err := ParseDocument(data)
	if err != nil {
		if ce, ok := err.(*CorpusError); ok {
			ce.Path = path
			return nil, ce
		}
		return nil, err
	}
	return doc, nil
}

// ParseDocument parses a corpus document from memory. Unknown top-level
// keys, unresolvable grammars, and negative sibling sequences fail the
// parse. An empty document is a valid corpus contributing nothing.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return &Document{}, nil
		}
		return nil, &CorpusError{Message: "parsing corpus YAML", Err: err}
	}

	for i := range doc.Identifiers {
		entry := &doc.Identifiers[i]
		if entry.Code == "" {
			return nil, &CorpusError{Line: entry.line, Message: "identifier entry is missing a code"}
		}
		entry.Grammar = numbering.GrammarBarton
		if entry.rawGrammar != "" {
			grammar, err := numbering.ParseGrammar(entry.rawGrammar)
			if err != nil {
				return nil, &CorpusError{Line: entry.line, Message: fmt.Sprintf("identifier entry %q: %v", entry.Code, err)}
			}
			entry.Grammar = grammar
		}
		for _, s := range entry.Siblings {
			if s < 0 {
				return nil, &CorpusError{Line: entry.line, Message: fmt.Sprintf("identifier entry %q declares negative sibling sequence %d", entry.Code, s)}
			}
		}
	}

	return &doc, nil
}

// Subjects converts the document into enforcement subjects, identifiers
// first, in declaration order.
func (d *Document) Subjects() []compliance.Subject {
	subjects := make([]compliance.Subject, 0, len(d.Identifiers)+len(d.Envelopes))
	for _, entry := range d.Identifiers {
		s := compliance.IdentifierSubject(entry.Code, entry.Grammar)
		s.Siblings = append([]int(nil), entry.Siblings...)
		subjects = append(subjects, s)
	}
	for _, entry := range d.Envelopes {
		subjects = append(subjects, compliance.EnvelopeSubject(entry.Envelope))
	}
	return subjects
}

// LoadSources loads every corpus file and concatenates the subjects in
// path order. The first unloadable file aborts the whole load.
func LoadSources(paths []string) ([]compliance.Subject, error) {
	var subjects []compliance.Subject
	for _, path := range paths {
		doc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, doc.Subjects()...)
	}
	return subjects, nil
}

// Discover finds corpus files under root matching the glob patterns.
// Patterns use doublestar syntax, so "doctrine/**/*.yaml" descends
// arbitrarily deep. A root that is itself a file is returned as-is.
// Results are sorted and deduplicated, keeping run input order stable
// across filesystems.
func Discover(root string, patterns []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &CorpusError{Path: root, Message: "resolving corpus root", Err: err}
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	seen := make(map[string]bool)
	files := make([]string, 0)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(filepath.Join(root, pattern))
		if err != nil {
			return nil, &CorpusError{Path: root, Message: fmt.Sprintf("glob pattern %q", pattern), Err: err}
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
