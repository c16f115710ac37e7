package java

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/docview/inspector"
)

// compilationUnit holds the declarations of one parsed Java source file
type compilationUnit struct {
	pkg       string
	imports   map[string]string // simple name -> qualified name
	wildcards []string          // on-demand imported packages
	types     []*declaration
}

// declaration holds one top-level class or interface declaration
type declaration struct {
	name        string
	isInterface bool
	superclass  string
	interfaces  []string
	typeParams  []inspector.TypeParam
	modifiers   []string
	comment     string
	bodyErr     error

	fields       []inspector.Member
	methods      []inspector.Member
	constructors []inspector.Member
	docs         []memberDoc // member documentation in source order
}

// memberDoc is a javadoc comment attached to a member
type memberDoc struct {
	target string
	text   string
	params []string
}

// parseCompilationUnit extracts package, imports and top-level types from a program node
func parseCompilationUnit(root *sitter.Node, source []byte) *compilationUnit {
	unit := &compilationUnit{imports: map[string]string{}}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "package_declaration":
			unit.pkg = parsePackageDeclaration(child, source)
		case "import_declaration":
			parseImportDeclaration(child, source, unit)
		case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
			if decl := parseTypeDeclaration(child, source); decl != nil {
				unit.types = append(unit.types, decl)
			}
		}
	}
	return unit
}

// parsePackageDeclaration extracts the package name from a Java source file
func parsePackageDeclaration(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "scoped_identifier", "identifier":
			return child.Content(source)
		}
	}
	return ""
}

// parseImportDeclaration registers single type and on-demand imports; static imports are ignored
func parseImportDeclaration(node *sitter.Node, source []byte, unit *compilationUnit) {
	text := strings.TrimSpace(node.Content(source))
	text = strings.TrimSuffix(strings.TrimPrefix(text, "import"), ";")
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "static ") {
		return
	}
	text = strings.ReplaceAll(text, " ", "")
	if strings.HasSuffix(text, ".*") {
		unit.wildcards = append(unit.wildcards, strings.TrimSuffix(text, ".*"))
		return
	}
	unit.imports[inspector.SimpleName(text)] = text
}

// parseTypeDeclaration extracts class or interface information
func parseTypeDeclaration(node *sitter.Node, source []byte) *declaration {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	decl := &declaration{
		name:        nameNode.Content(source),
		isInterface: node.Type() == "interface_declaration",
		modifiers:   extractModifiers(node, source),
		comment:     extractJavadoc(node, source),
		typeParams:  extractTypeParameters(node, source),
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "superclass":
			if types := collectTypes(child, source); len(types) > 0 {
				decl.superclass = types[0]
			}
		case "super_interfaces", "extends_interfaces":
			decl.interfaces = append(decl.interfaces, collectTypes(child, source)...)
		}
	}

	bodyNode := node.ChildByFieldName("body")
	if bodyNode == nil {
		decl.bodyErr = &inspector.ResolutionError{Type: decl.name, Err: fmt.Errorf("missing declaration body")}
		return decl
	}
	if decl.comment != "" {
		decl.docs = append(decl.docs, memberDoc{target: inspector.ClassTarget(decl.name, decl.isInterface), text: decl.comment})
	}
	for i := 0; i < int(bodyNode.NamedChildCount()); i++ {
		child := bodyNode.NamedChild(i)
		switch child.Type() {
		case "field_declaration", "constant_declaration":
			decl.addFields(parseFieldDeclaration(child, source), extractJavadoc(child, source))
		case "method_declaration":
			if method := parseMethodDeclaration(child, source); method != nil {
				decl.methods = append(decl.methods, *method)
				decl.addDoc(*method, extractJavadoc(child, source))
			}
		case "constructor_declaration":
			if constructor := parseConstructorDeclaration(child, source, decl.name); constructor != nil {
				decl.constructors = append(decl.constructors, *constructor)
				decl.addDoc(*constructor, extractJavadoc(child, source))
			}
		}
	}

	if len(decl.constructors) == 0 && !decl.isInterface {
		decl.constructors = append(decl.constructors, inspector.Member{
			Kind:      inspector.KindConstructor,
			Name:      decl.name,
			Modifiers: []string{"public"},
		})
	}
	return decl
}

func (d *declaration) addFields(fields []inspector.Member, comment string) {
	for _, field := range fields {
		d.fields = append(d.fields, field)
		d.addDoc(field, comment)
	}
}

func (d *declaration) addDoc(member inspector.Member, comment string) {
	if comment == "" || member.Err != nil {
		return
	}
	d.docs = append(d.docs, memberDoc{
		target: inspector.Signature(member),
		text:   comment,
		params: member.ParamNames,
	})
}

// parseFieldDeclaration extracts one member per variable declarator
func parseFieldDeclaration(node *sitter.Node, source []byte) []inspector.Member {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return nil
	}
	fieldType := typeNode.Content(source)
	modifiers := extractModifiers(node, source)

	var fields []inspector.Member
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		aType := fieldType
		if dimensions := child.ChildByFieldName("dimensions"); dimensions != nil {
			aType += dimensions.Content(source)
		}
		fields = append(fields, inspector.Member{
			Kind:      inspector.KindField,
			Name:      nameNode.Content(source),
			Type:      aType,
			Modifiers: modifiers,
		})
	}
	return fields
}

// parseMethodDeclaration extracts method information from a class
func parseMethodDeclaration(node *sitter.Node, source []byte) *inspector.Member {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	method := &inspector.Member{
		Kind:      inspector.KindMethod,
		Name:      nameNode.Content(source),
		Type:      "void",
		Modifiers: extractModifiers(node, source),
	}
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		method.Type = typeNode.Content(source)
	}
	method.Params, method.ParamNames, method.Err = parseFormalParameters(node.ChildByFieldName("parameters"), source)
	return method
}

// parseConstructorDeclaration extracts constructor information from a class
func parseConstructorDeclaration(node *sitter.Node, source []byte, className string) *inspector.Member {
	constructor := &inspector.Member{
		Kind:      inspector.KindConstructor,
		Name:      className,
		Modifiers: extractModifiers(node, source),
	}
	constructor.Params, constructor.ParamNames, constructor.Err = parseFormalParameters(node.ChildByFieldName("parameters"), source)
	return constructor
}

// parseFormalParameters returns parameter types and names; a malformed parameter list is reported as an error
func parseFormalParameters(node *sitter.Node, source []byte) ([]string, []string, error) {
	if node == nil {
		return nil, nil, nil
	}
	if node.HasError() {
		return nil, nil, fmt.Errorf("malformed parameter list: %s", node.Content(source))
	}
	var types, names []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		paramNode := node.NamedChild(i)
		switch paramNode.Type() {
		case "formal_parameter":
			typeNode := paramNode.ChildByFieldName("type")
			nameNode := paramNode.ChildByFieldName("name")
			if typeNode == nil || nameNode == nil {
				return nil, nil, fmt.Errorf("incomplete parameter: %s", paramNode.Content(source))
			}
			aType := typeNode.Content(source)
			if dimensions := paramNode.ChildByFieldName("dimensions"); dimensions != nil {
				aType += dimensions.Content(source)
			}
			types = append(types, aType)
			names = append(names, nameNode.Content(source))
		case "spread_parameter":
			var aType, name string
			for j := 0; j < int(paramNode.NamedChildCount()); j++ {
				child := paramNode.NamedChild(j)
				switch child.Type() {
				case "modifiers":
				case "variable_declarator":
					if nameNode := child.ChildByFieldName("name"); nameNode != nil {
						name = nameNode.Content(source)
					}
				default:
					if aType == "" {
						aType = child.Content(source)
					}
				}
			}
			if aType == "" || name == "" {
				return nil, nil, fmt.Errorf("incomplete variadic parameter: %s", paramNode.Content(source))
			}
			types = append(types, aType+"...")
			names = append(names, name)
		}
	}
	return types, names, nil
}

// extractModifiers returns modifier keywords and annotations of a declaration
func extractModifiers(node *sitter.Node, source []byte) []string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "modifiers" {
			return strings.Fields(child.Content(source))
		}
	}
	return nil
}

// collectTypes returns type names listed under a superclass or interfaces clause
func collectTypes(node *sitter.Node, source []byte) []string {
	var result []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "type_list":
			result = append(result, collectTypes(child, source)...)
		case "type_identifier", "scoped_type_identifier", "generic_type":
			result = append(result, inspector.TypeName(child.Content(source)))
		}
	}
	return result
}
