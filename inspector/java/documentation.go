package java

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// isComment reports whether a node is a comment in any grammar revision
func isComment(node *sitter.Node) bool {
	switch node.Type() {
	case "comment", "block_comment", "line_comment":
		return true
	}
	return false
}

// extractJavadoc returns the cleaned javadoc comment preceding a declaration, empty if none
func extractJavadoc(node *sitter.Node, source []byte) string {
	prev := node.PrevNamedSibling()
	for prev != nil && isComment(prev) {
		text := strings.TrimSpace(prev.Content(source))
		if strings.HasPrefix(text, "/**") && text != "/**/" {
			return cleanCommentMarkers(text)
		}
		if strings.HasPrefix(text, "//") {
			// line comments between javadoc and declaration are tolerated
			prev = prev.PrevNamedSibling()
			continue
		}
		return ""
	}
	return ""
}

// cleanCommentMarkers removes comment markers from a javadoc comment, keeping line structure
func cleanCommentMarkers(comment string) string {
	comment = strings.TrimPrefix(comment, "/**")
	comment = strings.TrimSuffix(comment, "*/")
	lines := strings.Split(comment, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "*") {
			line = strings.TrimSpace(line[1:])
		}
		lines[i] = line
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
