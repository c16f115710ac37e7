package java

import (
	"context"

	"github.com/magiconair/properties"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/docview/docs"
)

// ClassInfo exposes documentation extracted from a live source parse.
// The underlying tree is not safe for concurrent use: Name and Comments must be called
// from the goroutine owning the parse, typically through a platform.Dispatcher.
type ClassInfo struct {
	tree   *sitter.Tree
	source []byte
	unit   *compilationUnit
}

// ParseClassInfo parses source and keeps the tree for later extraction
func ParseClassInfo(ctx context.Context, source []byte) (*ClassInfo, error) {
	tree, err := parse(ctx, source)
	if err != nil {
		return nil, err
	}
	return &ClassInfo{tree: tree, source: source}, nil
}

func (i *ClassInfo) compilationUnit() *compilationUnit {
	if i.unit == nil {
		i.unit = parseCompilationUnit(i.tree.RootNode(), i.source)
	}
	return i.unit
}

// Name returns the qualified name of the first top-level type, empty when the source declares none
func (i *ClassInfo) Name() string {
	unit := i.compilationUnit()
	if len(unit.types) == 0 {
		return ""
	}
	name := unit.types[0].name
	if unit.pkg != "" {
		name = unit.pkg + "." + name
	}
	return name
}

// Comments returns the documentation of the first top-level type as a context property bag
func (i *ClassInfo) Comments() *properties.Properties {
	unit := i.compilationUnit()
	var comments []docs.Comment
	if len(unit.types) > 0 {
		for _, doc := range unit.types[0].docs {
			comments = append(comments, docs.NewComment(doc.target, doc.text, doc.params...))
		}
	}
	return docs.ToProperties(comments)
}

// Close releases the parse tree
func (i *ClassInfo) Close() {
	if i.tree != nil {
		i.tree.Close()
		i.tree = nil
	}
}
