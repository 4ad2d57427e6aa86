package schema

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// A YAML schema descriptor looks like this:
//
//     namespace: urn:example:inventory
//     nodes:
//       - container: inventory
//         children:
//           - leaf: owner
//             type: string
//             mandatory: true
//           - list: items
//             key: [sku]
//             children:
//               - leaf: sku
//                 type: string
//               - leaf: price
//                 type: decimal64
//                 fraction-digits: 2
//               - leaf-list: tags
//                 type: string
//           - choice: location
//             cases:
//               - case: shelf
//                 children:
//                   - leaf: shelf-no
//                     type: uint16
//         augments:
//           - children:
//               - leaf: audited
//                 type: boolean

type yamlDescriptor struct {
	Namespace string     `yaml:"namespace"`
	Nodes     []yamlNode `yaml:"nodes"`
}

type yamlType struct {
	Type           string     `yaml:"type"`
	Enum           []string   `yaml:"enum"`
	Bits           []string   `yaml:"bits"`
	FractionDigits int        `yaml:"fraction-digits"`
	Union          []yamlType `yaml:"union"`
}

type yamlNode struct {
	TypeDef   yamlType      `yaml:",inline"`
	Container string        `yaml:"container"`
	List      string        `yaml:"list"`
	Leaf      string        `yaml:"leaf"`
	LeafList  string        `yaml:"leaf-list"`
	Choice    string        `yaml:"choice"`
	Case      string        `yaml:"case"`
	Mandatory bool          `yaml:"mandatory"`
	Presence  bool          `yaml:"presence"`
	Key       []string      `yaml:"key"`
	Children  []yamlNode    `yaml:"children"`
	Cases     []yamlNode    `yaml:"cases"`
	Augments  []yamlAugment `yaml:"augments"`
}

type yamlAugment struct {
	Children []yamlNode `yaml:"children"`
}

// LoadYAML reads a YAML schema descriptor and builds a schema context from it.
func LoadYAML(r io.Reader) (*Context, error) {
	var desc yamlDescriptor
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil {
		return nil, errors.Wrap(err, "cannot decode schema descriptor")
	}
	nodes, err := convertAll(desc.Nodes)
	if err != nil {
		return nil, err
	}
	return Build(desc.Namespace, nodes...)
}

// LoadYAMLFile reads a YAML schema descriptor from a file.
func LoadYAMLFile(path string) (*Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open schema descriptor %s", path)
	}
	defer f.Close()
	return LoadYAML(f)
}

func convertAll(ynodes []yamlNode) ([]*Node, error) {
	nodes := make([]*Node, 0, len(ynodes))
	for _, yn := range ynodes {
		n, err := yn.convert()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (yt yamlType) convert() Type {
	t := Type{Name: yt.Type, Enum: yt.Enum, Bits: yt.Bits, FractionDigits: yt.FractionDigits}
	for _, m := range yt.Union {
		t.Union = append(t.Union, m.convert())
	}
	return t
}

func (yn yamlNode) convert() (*Node, error) {
	children, err := convertAll(yn.Children)
	if err != nil {
		return nil, err
	}
	var n *Node
	switch {
	case yn.Container != "":
		n = Container(yn.Container, children...)
		n.presence = yn.Presence
	case yn.List != "":
		n = List(yn.List, yn.Key, children...)
	case yn.Leaf != "":
		n = Leaf(yn.Leaf, yn.TypeDef.convert())
		n.mandatory = yn.Mandatory
	case yn.LeafList != "":
		n = LeafList(yn.LeafList, yn.TypeDef.convert())
	case yn.Choice != "":
		cases, err := convertAll(yn.Cases)
		if err != nil {
			return nil, err
		}
		n = Choice(yn.Choice, cases...)
	case yn.Case != "":
		n = Case(yn.Case, children...)
	default:
		return nil, errors.Wrap(ErrInvalidSchema, "schema descriptor node without kind")
	}
	for _, aug := range yn.Augments {
		augChildren, err := convertAll(aug.Children)
		if err != nil {
			return nil, err
		}
		n.Augmented(augChildren...)
	}
	return n, nil
}
