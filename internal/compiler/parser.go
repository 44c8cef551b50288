package compiler

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a form definition.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

// Document is a decoded form definition file.
type Document struct {
	ID       string
	Title    string
	Controls []domain.Content
}

// Parser is responsible for converting raw definitions into content trees.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a definition. The top level is either a list of nodes or a
// map with a "controls" list and optional "id" and "title".
func (p *Parser) Parse(data []byte, format Format) (*Document, error) {
	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return p.Decode(raw)
}

// Decode builds a document from already unmarshaled data.
func (p *Parser) Decode(raw any) (*Document, error) {
	switch v := normalize(raw).(type) {
	case []any:
		controls, err := p.DecodeContent(v)
		if err != nil {
			return nil, err
		}
		return &Document{Controls: controls}, nil
	case map[string]any:
		list, ok := v["controls"].([]any)
		if !ok && v["controls"] != nil {
			return nil, fmt.Errorf("controls: expected a list, got %T", v["controls"])
		}
		controls, err := p.DecodeContent(list)
		if err != nil {
			return nil, err
		}
		doc := &Document{Controls: controls}
		doc.ID, _ = v["id"].(string)
		doc.Title, _ = v["title"].(string)
		return doc, nil
	case nil:
		return &Document{}, nil
	default:
		return nil, fmt.Errorf("expected a list or a map at the top level, got %T", raw)
	}
}

// DecodeContent decodes a list of node maps. A node with a "controls" key
// is a group.
func (p *Parser) DecodeContent(list []any) ([]domain.Content, error) {
	out := make([]domain.Content, 0, len(list))
	for i, item := range list {
		m, ok := normalize(item).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("[%d]: expected a map, got %T", i, item)
		}
		c, err := p.decodeNode(m)
		if err != nil {
			id, _ := m["id"].(string)
			if id == "" {
				id = fmt.Sprintf("[%d]", i)
			}
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (p *Parser) decodeNode(m map[string]any) (domain.Content, error) {
	children, isGroup := m["controls"]
	if !isGroup {
		var c domain.Control
		if err := decode(m, &c); err != nil {
			return nil, err
		}
		return &c, nil
	}

	list, ok := children.([]any)
	if !ok && children != nil {
		return nil, fmt.Errorf("controls: expected a list, got %T", children)
	}
	var g domain.Group
	if err := decode(m, &g); err != nil {
		return nil, err
	}
	controls, err := p.DecodeContent(list)
	if err != nil {
		return nil, err
	}
	g.Controls = controls
	return &g, nil
}

func decode(input map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			expressionHook,
			mapstructure.StringToSliceHookFunc(","),
		),
		Result: target,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

var expressionType = reflect.TypeOf(domain.Expression(""))

// expressionHook accepts booleans for rule fields: `hide: true` is the
// expression "true" and `hide: false` is no rule at all.
func expressionHook(from, to reflect.Type, data any) (any, error) {
	if to != expressionType || from.Kind() != reflect.Bool {
		return data, nil
	}
	if data.(bool) {
		return "true", nil
	}
	return "", nil
}

// normalize converts the map[any]any values some YAML decoders produce
// into map[string]any, recursively.
func normalize(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, sub := range t {
			out[fmt.Sprint(k)] = normalize(sub)
		}
		return out
	case map[string]any:
		for k, sub := range t {
			t[k] = normalize(sub)
		}
		return t
	case []any:
		for i, sub := range t {
			t[i] = normalize(sub)
		}
		return t
	default:
		return v
	}
}
