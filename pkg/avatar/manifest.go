package avatar

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Manifest is the parameter surface the current avatar binds: bare
// names (which may nest, like "Go/StandIdle") to expected value types.
type Manifest struct {
	Avatar string
	params map[string]Kind
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{params: make(map[string]Kind)}
}

// Has reports whether the avatar binds a parameter.
func (m *Manifest) Has(name string) bool {
	_, ok := m.params[name]
	return ok
}

// Kind returns a bound parameter's value type.
func (m *Manifest) Kind(name string) (Kind, bool) {
	k, ok := m.params[name]
	return k, ok
}

// Len returns the number of bound parameters.
func (m *Manifest) Len() int { return len(m.params) }

// Names returns the bound names, sorted.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.params))
	for name := range m.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// queryNode is one node of a parameter-discovery tree. Inner nodes
// carry contents; leaves carry an OSC type tag.
type queryNode struct {
	Contents map[string]*queryNode `json:"CONTENTS"`
	Type     string                `json:"TYPE"`
}

// ParseQueryTree builds a manifest from a discovery service's node
// tree, keeping only the avatar parameter subtree. The document may be
// the full tree or the /avatar subtree, depending on which path was
// queried.
func ParseQueryTree(data []byte) (*Manifest, error) {
	var root queryNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse query tree: %w", err)
	}

	node := &root
	if next, ok := node.Contents["avatar"]; ok && next != nil {
		node = next
	}
	next, ok := node.Contents["parameters"]
	if !ok || next == nil {
		return nil, fmt.Errorf("query tree has no avatar parameter subtree")
	}

	m := NewManifest()
	collectParams(m, "", next)
	return m, nil
}

func collectParams(m *Manifest, prefix string, node *queryNode) {
	for name, child := range node.Contents {
		if child == nil {
			continue
		}
		full := name
		if prefix != "" {
			full = prefix + "/" + name
		}
		if len(child.Contents) > 0 {
			collectParams(m, full, child)
			continue
		}
		if k, ok := kindFromTag(child.Type); ok {
			m.params[full] = k
		}
	}
}

// kindFromTag maps OSC type tags to value kinds. Bool parameters show
// up as T or F depending on their value at discovery time.
func kindFromTag(tag string) (Kind, bool) {
	switch tag {
	case "f", "d":
		return KindFloat, true
	case "i", "h":
		return KindInt, true
	case "T", "F", "B":
		return KindBool, true
	}
	return 0, false
}

// avatarFile is the consumer's per-avatar parameter description.
type avatarFile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Parameters []struct {
		Name  string           `json:"name"`
		Input *avatarFileEntry `json:"input"`
	} `json:"parameters"`
}

type avatarFileEntry struct {
	Address string `json:"address"`
	Type    string `json:"type"`
}

// LoadFile builds a manifest from an avatar description on disk. Only
// writable parameters (those with an input binding) are kept.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read avatar file: %w", err)
	}
	var af avatarFile
	if err := json.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("parse avatar file %s: %w", path, err)
	}

	m := NewManifest()
	m.Avatar = af.ID
	if m.Avatar == "" {
		m.Avatar = af.Name
	}
	for _, p := range af.Parameters {
		if p.Input == nil {
			continue
		}
		switch p.Input.Type {
		case "Float":
			m.params[p.Name] = KindFloat
		case "Int":
			m.params[p.Name] = KindInt
		case "Bool":
			m.params[p.Name] = KindBool
		}
	}
	return m, nil
}
