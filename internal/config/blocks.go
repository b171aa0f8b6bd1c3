package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"scanframe/internal/slha"
)

// BlockSpec selects entries of one parameter block.
type BlockSpec struct {
	Name string       `validate:"required"`
	IDs  []slha.Index `validate:"min=1"`
}

// Blocks is an ordered block selection. In files it is written as a
// mapping from block name to a list of ids; each id is an integer or, for
// multi-index blocks, a list of integers:
//
//	MASS: [25, 6, 24]
//	NMIX: [[1, 1], [1, 2]]
//
// Mapping order is kept, and it fixes the column order of the table.
type Blocks []BlockSpec

// UnmarshalYAML walks the mapping node directly so order survives.
func (b *Blocks) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: blocks must be a mapping", n.Line)
	}
	out := make(Blocks, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		ids, err := yamlIDs(val)
		if err != nil {
			return fmt.Errorf("block %s: %w", key.Value, err)
		}
		out = append(out, BlockSpec{Name: key.Value, IDs: ids})
	}
	*b = out
	return nil
}

func yamlIDs(n *yaml.Node) ([]slha.Index, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		v, err := yamlInt(n)
		if err != nil {
			return nil, err
		}
		return []slha.Index{{v}}, nil
	case yaml.SequenceNode:
		out := make([]slha.Index, 0, len(n.Content))
		for _, item := range n.Content {
			ix, err := yamlIndex(item)
			if err != nil {
				return nil, err
			}
			out = append(out, ix)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: ids must be a list", n.Line)
	}
}

func yamlIndex(n *yaml.Node) (slha.Index, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		v, err := yamlInt(n)
		if err != nil {
			return nil, err
		}
		return slha.Index{v}, nil
	case yaml.SequenceNode:
		ix := make(slha.Index, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: index components must be integers", c.Line)
			}
			v, err := yamlInt(c)
			if err != nil {
				return nil, err
			}
			ix = append(ix, v)
		}
		return ix, nil
	default:
		return nil, fmt.Errorf("line %d: id must be an integer or a list of integers", n.Line)
	}
}

func yamlInt(n *yaml.Node) (int, error) {
	v, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, fmt.Errorf("line %d: %q is not an integer", n.Line, n.Value)
	}
	return v, nil
}

// UnmarshalJSON reads the object token by token so order survives.
func (b *Blocks) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("blocks must be an object")
	}
	var out Blocks
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("block %s: %w", name, err)
		}
		ids, err := jsonIDs(raw)
		if err != nil {
			return fmt.Errorf("block %s: %w", name, err)
		}
		out = append(out, BlockSpec{Name: name, IDs: ids})
	}
	*b = out
	return nil
}

func jsonIDs(raw json.RawMessage) ([]slha.Index, error) {
	var single int
	if err := json.Unmarshal(raw, &single); err == nil {
		return []slha.Index{{single}}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("ids must be an integer or a list")
	}
	out := make([]slha.Index, 0, len(items))
	for _, it := range items {
		var n int
		if err := json.Unmarshal(it, &n); err == nil {
			out = append(out, slha.Index{n})
			continue
		}
		var ix []int
		if err := json.Unmarshal(it, &ix); err != nil {
			return nil, fmt.Errorf("id must be an integer or a list of integers")
		}
		out = append(out, slha.Index(ix))
	}
	return out, nil
}
