package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnit_Find(t *testing.T) {
	unit := NewUnit("demo.Widget")
	unit.Add(NewComment("class Widget", "A widget."))
	unit.Add(NewComment("int size()", "Returns size."))
	unit.Add(NewComment("void resize(int)", "", "size"))
	unit.Add(NewComment("void resize(int, int)", "", "width", "height"))

	comment, ok := unit.Find("int size()")
	assert.True(t, ok)
	assert.Equal(t, "Returns size.", comment.Text())

	_, ok = unit.Find("int size")
	assert.False(t, ok)

	testCases := []struct {
		description string
		expr        string
		expect      []string
	}{
		{description: "whole match", expr: `void resize\(.*\)`, expect: []string{"void resize(int)", "void resize(int, int)"}},
		{description: "partial does not match", expr: `resize`},
		{description: "class marker", expr: `class .*`, expect: []string{"class Widget"}},
		{description: "invalid expression", expr: `resize(`},
	}
	for _, testCase := range testCases {
		var actual []string
		for _, comment := range unit.FindMatching(testCase.expr) {
			actual = append(actual, comment.Target())
		}
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestUnit_State(t *testing.T) {
	unit := NewUnit("demo.Widget")
	assert.True(t, unit.IsEmpty())
	assert.False(t, unit.Writable())
	assert.Equal(t, "Unit[class=demo.Widget, comments=0, file=<none>]", unit.String())

	unit = newFileUnit("demo.Widget", "/tmp/demo/Widget.ctxt", true, 1)
	unit.Add(NewComment("class Widget", "A widget."))
	assert.True(t, unit.Writable())
	assert.Equal(t, "Unit[class=demo.Widget, comments=1, file=Widget.ctxt]", unit.String())

	comments := unit.Comments()
	comments[0] = NewComment("changed", "")
	assert.Equal(t, "class Widget", unit.Comments()[0].Target())

	unit.Clear()
	assert.True(t, unit.IsEmpty())
}

func TestComment(t *testing.T) {
	params := []string{"a", "b"}
	comment := NewComment("void f(int, int)", "text", params...)
	params[0] = "z"
	assert.Equal(t, []string{"a", "b"}, comment.Params())
	assert.Equal(t, "void f(int, int) [a b]", comment.String())
	assert.False(t, comment.IsClass())
	assert.True(t, NewComment("interface Shape", "").IsClass())
	assert.True(t, NewComment("class Widget", "").IsClass())
	assert.Nil(t, NewComment("Widget()", "").Params())
}
