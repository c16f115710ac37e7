package inspector

import "strings"

// Signature returns the canonical member signature used for merge deduplication and comment lookup.
// Methods render as "ret name(T1, T2)", constructors as "Name(T1, T2)" and fields as "type name".
func Signature(member Member) string {
	builder := strings.Builder{}
	switch member.Kind {
	case KindField:
		builder.WriteString(TypeName(member.Type))
		builder.WriteString(" ")
		builder.WriteString(member.Name)
		return builder.String()
	case KindMethod:
		builder.WriteString(TypeName(member.Type))
		builder.WriteString(" ")
	}
	builder.WriteString(member.Name)
	builder.WriteString("(")
	for i, param := range member.Params {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(TypeName(param))
	}
	builder.WriteString(")")
	return builder.String()
}

// TypeName normalizes a declared type: generic arguments are erased and varargs become arrays
func TypeName(typeName string) string {
	typeName = strings.TrimSpace(typeName)
	if typeName == "" {
		return "void"
	}
	var builder strings.Builder
	depth := 0
	for _, r := range typeName {
		switch {
		case r == '<':
			depth++
		case r == '>':
			depth--
		case depth > 0:
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		default:
			builder.WriteRune(r)
		}
	}
	result := builder.String()
	if strings.HasSuffix(result, "...") {
		result = strings.TrimSuffix(result, "...") + "[]"
	}
	return result
}

const (
	classMarker     = "class "
	interfaceMarker = "interface "
)

// ClassTarget returns the comment target marking a class level comment
func ClassTarget(simpleName string, isInterface bool) string {
	if isInterface {
		return interfaceMarker + simpleName
	}
	return classMarker + simpleName
}

// IsClassTarget reports whether a comment target denotes a class or interface comment
func IsClassTarget(target string) bool {
	return strings.HasPrefix(target, classMarker) || strings.HasPrefix(target, interfaceMarker)
}

// SimpleName returns the last segment of a qualified name
func SimpleName(qualifiedName string) string {
	if idx := strings.LastIndex(qualifiedName, "."); idx != -1 {
		return qualifiedName[idx+1:]
	}
	return qualifiedName
}

// PackageName returns the package part of a qualified name
func PackageName(qualifiedName string) string {
	if idx := strings.LastIndex(qualifiedName, "."); idx != -1 {
		return qualifiedName[:idx]
	}
	return ""
}
