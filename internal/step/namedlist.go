package step

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// NamedList is an ordered list of paths, some of which carry a name.
//
// In YAML it is either a sequence whose items are plain strings or
// single-key maps (name: path), or a mapping of name to path. Entries of an
// inline list that contain wildcards must be quoted, ["out/{network}.csv"],
// since a bare { opens a flow mapping.
type NamedList struct {
	Paths []string
	Names []string // parallel to Paths; "" for unnamed entries
}

func (l NamedList) Len() int { return len(l.Paths) }

// Add appends a path under name (which may be empty).
func (l *NamedList) Add(name, path string) {
	l.Paths = append(l.Paths, path)
	l.Names = append(l.Names, name)
}

// Get returns the path registered under name.
func (l NamedList) Get(name string) (string, bool) {
	for i, n := range l.Names {
		if n == name && n != "" {
			return l.Paths[i], true
		}
	}
	return "", false
}

// First returns the first path.
func (l NamedList) First() (string, bool) {
	if len(l.Paths) == 0 {
		return "", false
	}
	return l.Paths[0], true
}

// Map applies fn to every path, keeping names.
func (l NamedList) Map(fn func(string) (string, error)) (NamedList, error) {
	out := NamedList{Names: append([]string(nil), l.Names...), Paths: make([]string, len(l.Paths))}
	for i, p := range l.Paths {
		v, err := fn(p)
		if err != nil {
			return NamedList{}, err
		}
		out.Paths[i] = v
	}
	return out, nil
}

func (l *NamedList) UnmarshalYAML(node *yaml.Node) error {
	*l = NamedList{}
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		l.Add("", s)
	case yaml.MappingNode:
		return l.addMapping(node)
	case yaml.SequenceNode:
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				l.Add("", item.Value)
			case yaml.MappingNode:
				if err := l.addMapping(item); err != nil {
					return err
				}
			default:
				return fmt.Errorf("line %d: expected path or name: path", item.Line)
			}
		}
	default:
		return fmt.Errorf("line %d: expected list or mapping of paths", node.Line)
	}
	return nil
}

func (l *NamedList) addMapping(node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: %s: expected a path", v.Line, k.Value)
		}
		l.Add(k.Value, v.Value)
	}
	return nil
}
