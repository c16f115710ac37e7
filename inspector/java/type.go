package java

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/docview/inspector"
)

// primitives lists Java primitive type names, these never resolve through a loader
var primitives = map[string]bool{
	"boolean": true,
	"char":    true,
	"byte":    true,
	"short":   true,
	"int":     true,
	"long":    true,
	"float":   true,
	"double":  true,
	"void":    true,
}

// isPrimitive reports whether a (possibly array) type is built from a primitive
func isPrimitive(typeName string) bool {
	return primitives[strings.TrimRight(inspector.TypeName(typeName), "[]")]
}

// extractTypeParameters extracts generic type parameters from a declaration node
func extractTypeParameters(node *sitter.Node, source []byte) []inspector.TypeParam {
	typeParamNode := node.ChildByFieldName("type_parameters")
	if typeParamNode == nil {
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if child := node.NamedChild(i); child.Type() == "type_parameters" {
				typeParamNode = child
				break
			}
		}
	}
	if typeParamNode == nil {
		return nil
	}

	var params []inspector.TypeParam
	for i := 0; i < int(typeParamNode.NamedChildCount()); i++ {
		paramNode := typeParamNode.NamedChild(i)
		if paramNode.Type() != "type_parameter" {
			continue
		}
		var param inspector.TypeParam
		for j := 0; j < int(paramNode.NamedChildCount()); j++ {
			child := paramNode.NamedChild(j)
			switch child.Type() {
			case "type_identifier", "identifier":
				if param.Name == "" {
					param.Name = child.Content(source)
				}
			case "type_bound":
				for k := 0; k < int(child.NamedChildCount()); k++ {
					param.Bounds = append(param.Bounds, child.NamedChild(k).Content(source))
				}
			}
		}
		if param.Name != "" {
			params = append(params, param)
		}
	}
	return params
}
