package edgepat

import (
	"bytes"
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Document forms of the AST, used for JSON and YAML output. Property maps
// keep their source order and duplicate keys.

type elementDoc struct {
	Direction string   `json:"direction" yaml:"direction"`
	Source    nodeDoc  `json:"source"    yaml:"source"`
	Edge      edgeDoc  `json:"edge"      yaml:"edge"`
	Target    nodeDoc  `json:"target"    yaml:"target"`
}

type nodeDoc struct {
	Label      string       `json:"label"      yaml:"label"`
	Properties *PropertyMap `json:"properties" yaml:"properties"`
}

type edgeDoc struct {
	Label      string       `json:"label"      yaml:"label"`
	Properties *PropertyMap `json:"properties" yaml:"properties"`
}

func (e *PatternElement) doc() elementDoc {
	return elementDoc{
		Direction: e.Direction.String(),
		Source:    nodeDoc{Label: string(e.Source.Label), Properties: e.Source.Properties},
		Edge:      edgeDoc{Label: string(e.Edge.Label), Properties: e.Edge.Properties},
		Target:    nodeDoc{Label: string(e.Target.Label), Properties: e.Target.Properties},
	}
}

// MarshalJSON encodes the list as an array of pattern elements.
func (l *PatternList) MarshalJSON() ([]byte, error) {
	docs := make([]elementDoc, 0, len(l.Patterns))
	for _, el := range l.Elements() {
		docs = append(docs, el.doc())
	}

	return json.Marshal(docs)
}

// MarshalYAML encodes the list as a sequence of pattern elements.
func (l *PatternList) MarshalYAML() (any, error) {
	docs := make([]elementDoc, 0, len(l.Patterns))
	for _, el := range l.Elements() {
		docs = append(docs, el.doc())
	}

	return docs, nil
}

// MarshalJSON encodes the element as a document.
func (e *PatternElement) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.doc())
}

// MarshalJSON encodes the map as a JSON object in source order.
func (m *PropertyMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, e := range m.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(string(e.Key))
		if err != nil {
			return nil, err
		}

		value, err := e.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalJSON encodes the literal as the matching JSON value.
func (l Literal) MarshalJSON() ([]byte, error) {
	switch l.Kind {
	case LiteralBool:
		return json.Marshal(l.Bool)
	case LiteralInteger:
		return []byte(strconv.FormatInt(l.Int, 10)), nil
	case LiteralDouble:
		return json.Marshal(l.Double)
	case LiteralString:
		return json.Marshal(l.Str)
	case LiteralMap:
		return l.Map.MarshalJSON()
	default:
		return []byte("null"), nil
	}
}

// MarshalYAML encodes the map as an ordered YAML mapping.
func (m *PropertyMap) MarshalYAML() (any, error) {
	return mapNode(m), nil
}

// MarshalYAML encodes the literal as a tagged YAML node.
func (l Literal) MarshalYAML() (any, error) {
	return literalNode(l), nil
}

func mapNode(m *PropertyMap) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, e := range m.Entries {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(e.Key)},
			literalNode(e.Value),
		)
	}

	return n
}

func literalNode(l Literal) *yaml.Node {
	switch l.Kind {
	case LiteralBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(l.Bool)}
	case LiteralInteger:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(l.Int, 10)}
	case LiteralDouble:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatDouble(l.Double)}
	case LiteralString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: l.Str}
	case LiteralMap:
		return mapNode(l.Map)
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
