package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

type ProductVolume struct {
	Product string  `json:"product" yaml:"product"`
	Volume  float64 `json:"volume" yaml:"volume"`
}

// ProductVolumes is a product label -> volume mapping that keeps document
// order. It reads either an object ({"Board": 100}) or an array of
// {product, volume} items and always writes an object.
//
// Order matters: it decides which match wins when two are equally close.
type ProductVolumes []ProductVolume

func (p *ProductVolumes) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = nil
		return nil
	}

	if b[0] == '[' {
		var items []ProductVolume
		if err := json.Unmarshal(b, &items); err != nil {
			return fmt.Errorf("product volumes: %w", err)
		}
		*p = items
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("product volumes: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("product volumes: expected object or array, got %v", tok)
	}

	out := ProductVolumes{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("product volumes: %w", err)
		}
		label, _ := tok.(string)

		var volume *float64
		if err := dec.Decode(&volume); err != nil {
			return fmt.Errorf("product volumes: volume of %q: %w", label, err)
		}
		v := 0.0
		if volume != nil {
			v = *volume
		}
		out = append(out, ProductVolume{Product: label, Volume: v})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("product volumes: %w", err)
	}

	*p = out
	return nil
}

func (p ProductVolumes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(item.Product)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(item.Volume, 'f', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *ProductVolumes) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.SequenceNode:
		var items []ProductVolume
		if err := n.Decode(&items); err != nil {
			return fmt.Errorf("product volumes: %w", err)
		}
		*p = items
		return nil
	case yaml.MappingNode:
		out := make(ProductVolumes, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			var v float64
			if n.Content[i+1].Tag != "!!null" {
				if err := n.Content[i+1].Decode(&v); err != nil {
					return fmt.Errorf("product volumes: volume of %q: %w", n.Content[i].Value, err)
				}
			}
			out = append(out, ProductVolume{Product: n.Content[i].Value, Volume: v})
		}
		*p = out
		return nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			*p = nil
			return nil
		}
	}
	return fmt.Errorf("product volumes: line %d: expected mapping or sequence", n.Line)
}

// FlexibleID accepts a JSON/YAML number or string.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a number or a string: %w", err)
	}
	*id = FlexibleID(n.String())
	return nil
}

func (id *FlexibleID) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: id must be a scalar", n.Line)
	}
	if n.Tag == "!!null" {
		*id = ""
		return nil
	}
	*id = FlexibleID(n.Value)
	return nil
}
