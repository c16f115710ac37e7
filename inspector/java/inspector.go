package java

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/docview/inspector"
)

// DefaultSourceSuffix is the Java source file suffix
const DefaultSourceSuffix = ".java"

// Loader defines classes from Java sources found under its roots.
// Lookups delegate to the parent loader first, mirroring JVM class loader delegation.
type Loader struct {
	id     string
	parent *Loader
	roots  []string
	suffix string
	fs     afs.Service
	logger *log.Logger

	mux     sync.Mutex
	classes map[string]*Class
	missing map[string]bool
}

// Option configures a Loader
type Option func(*Loader)

// WithParent sets the parent loader
func WithParent(parent *Loader) Option {
	return func(l *Loader) {
		l.parent = parent
	}
}

// WithFS sets the file system service
func WithFS(fs afs.Service) Option {
	return func(l *Loader) {
		l.fs = fs
	}
}

// WithLogger sets the logger used for best-effort diagnostics
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithSourceSuffix overrides the source file suffix
func WithSourceSuffix(suffix string) Option {
	return func(l *Loader) {
		if suffix != "" {
			l.suffix = suffix
		}
	}
}

// NewLoader creates a loader over the given source and resource roots
func NewLoader(id string, roots []string, options ...Option) *Loader {
	l := &Loader{
		id:      id,
		roots:   roots,
		suffix:  DefaultSourceSuffix,
		classes: map[string]*Class{},
		missing: map[string]bool{},
	}
	for _, option := range options {
		option(l)
	}
	if l.fs == nil {
		l.fs = afs.New()
	}
	if l.logger == nil {
		l.logger = log.Default()
	}
	return l
}

// ID returns the loader identifier
func (l *Loader) ID() string {
	return l.id
}

// Parent returns the parent loader or nil
func (l *Loader) Parent() *Loader {
	return l.parent
}

// Roots returns loader roots
func (l *Loader) Roots() []string {
	return l.roots
}

// Resource resolves a slash separated resource name against parent then own roots
func (l *Loader) Resource(ctx context.Context, name string) (string, bool) {
	if l.parent != nil {
		if URL, ok := l.parent.Resource(ctx, name); ok {
			return URL, true
		}
	}
	for _, root := range l.roots {
		URL := url.Join(root, name)
		if ok, _ := l.fs.Exists(ctx, URL); ok {
			return URL, true
		}
	}
	return "", false
}

// Class returns the class defined for the qualified name visible to this loader
func (l *Loader) Class(ctx context.Context, qualifiedName string) (*Class, error) {
	if class, ok := l.lookup(ctx, qualifiedName); ok {
		return class, nil
	}
	return nil, &inspector.ResolutionError{Type: qualifiedName, Err: fmt.Errorf("class not found by loader %v", l.id)}
}

// Define parses source and defines its top-level types in this loader, replacing earlier definitions
func (l *Loader) Define(ctx context.Context, source []byte) ([]*Class, error) {
	unit, err := parseSource(ctx, source)
	if err != nil {
		return nil, err
	}
	l.mux.Lock()
	defer l.mux.Unlock()
	return l.define(unit), nil
}

func (l *Loader) lookup(ctx context.Context, qualifiedName string) (*Class, bool) {
	if l.parent != nil {
		if class, ok := l.parent.lookup(ctx, qualifiedName); ok {
			return class, true
		}
	}
	l.mux.Lock()
	defer l.mux.Unlock()
	if class, ok := l.classes[qualifiedName]; ok {
		return class, true
	}
	if l.missing[qualifiedName] {
		return nil, false
	}
	class, err := l.load(ctx, qualifiedName)
	if err != nil {
		l.logger.Printf("failed to load %v: %v", qualifiedName, err)
	}
	if class == nil {
		l.missing[qualifiedName] = true
		return nil, false
	}
	return class, true
}

// load reads and parses the source file of a class, caller holds the lock
func (l *Loader) load(ctx context.Context, qualifiedName string) (*Class, error) {
	location := strings.ReplaceAll(qualifiedName, ".", "/") + l.suffix
	for _, root := range l.roots {
		URL := url.Join(root, location)
		if ok, _ := l.fs.Exists(ctx, URL); !ok {
			continue
		}
		source, err := l.fs.DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, fmt.Errorf("failed to read %v: %w", URL, err)
		}
		unit, err := parseSource(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %v: %w", URL, err)
		}
		l.define(unit)
		return l.classes[qualifiedName], nil
	}
	return nil, nil
}

// define registers declarations of a compilation unit, caller holds the lock
func (l *Loader) define(unit *compilationUnit) []*Class {
	var result []*Class
	for _, decl := range unit.types {
		class := &Class{loader: l, unit: unit, decl: decl}
		l.classes[class.Name()] = class
		delete(l.missing, class.Name())
		result = append(result, class)
	}
	return result
}

// parseSource parses Java source into a compilation unit
func parseSource(ctx context.Context, source []byte) (*compilationUnit, error) {
	tree, err := parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return parseCompilationUnit(tree.RootNode(), source), nil
}

func parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(java.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	return tree, nil
}
