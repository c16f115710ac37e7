package docs

import (
	"strings"

	"github.com/viant/docview/inspector"
)

// Comment represents one documentation entry: a target signature, its text and parameter names
type Comment struct {
	target string
	text   string
	params []string
}

// NewComment creates a comment entry
func NewComment(target, text string, params ...string) Comment {
	var names []string
	if len(params) > 0 {
		names = make([]string, len(params))
		copy(names, params)
	}
	return Comment{target: target, text: text, params: names}
}

// Target returns the target signature
func (c Comment) Target() string {
	return c.target
}

// Text returns the comment text, empty if absent
func (c Comment) Text() string {
	return c.text
}

// Params returns a copy of the parameter names
func (c Comment) Params() []string {
	if len(c.params) == 0 {
		return nil
	}
	result := make([]string, len(c.params))
	copy(result, c.params)
	return result
}

// IsClass reports whether the comment documents a class or interface
func (c Comment) IsClass() bool {
	return inspector.IsClassTarget(c.target)
}

func (c Comment) String() string {
	if len(c.params) == 0 {
		return c.target
	}
	return c.target + " [" + strings.Join(c.params, " ") + "]"
}
