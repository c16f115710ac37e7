package inspector

import (
	"context"
	"fmt"
	"strings"
)

// Loader represents a class namespace: classes defined by the same loader share it
type Loader interface {
	// ID returns a stable loader identifier
	ID() string

	// Resource resolves a slash separated resource name to a URL visible to this loader
	Resource(ctx context.Context, name string) (string, bool)
}

// Class provides introspection over one class or interface
type Class interface {
	// Name returns the fully qualified class name
	Name() string

	// Loader returns the defining loader, nil for the bootstrap namespace
	Loader() Loader

	// IsInterface reports whether the class is an interface
	IsInterface() bool

	// Superclass returns the direct superclass or nil at the hierarchy root
	Superclass(ctx context.Context) Class

	// Interfaces returns directly implemented (or, for interfaces, extended) interfaces
	Interfaces(ctx context.Context) []Class

	// DeclaredFields returns fields declared by this class only
	DeclaredFields() ([]Member, error)

	// DeclaredMethods returns methods declared by this class only
	DeclaredMethods() ([]Member, error)

	// DeclaredConstructors returns constructors declared by this class
	DeclaredConstructors() ([]Member, error)

	// TypeParams returns declared generic type parameters
	TypeParams() ([]TypeParam, error)
}

// MemberKind identifies a structural member category
type MemberKind int

const (
	KindField MemberKind = iota
	KindMethod
	KindConstructor
)

func (k MemberKind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindMethod:
		return "method"
	case KindConstructor:
		return "constructor"
	}
	return "unknown"
}

// Member describes one declared field, method or constructor
type Member struct {
	Kind       MemberKind
	Name       string   // member name, simple class name for constructors
	Type       string   // field type or method return type
	Params     []string // parameter types
	ParamNames []string
	Modifiers  []string
	Synthetic  bool
	Err        error // set when the member could not be constructed
}

// TypeParam represents a generic type parameter
type TypeParam struct {
	Name   string
	Bounds []string
}

func (p TypeParam) String() string {
	if len(p.Bounds) == 0 {
		return p.Name
	}
	return p.Name + " extends " + strings.Join(p.Bounds, " & ")
}

// Identity identifies a class by loader and qualified name
type Identity struct {
	Loader string
	Name   string
}

func (i Identity) String() string {
	if i.Loader == "" {
		return i.Name
	}
	return i.Loader + ":" + i.Name
}

// IdentityOf returns class identity
func IdentityOf(class Class) Identity {
	return Identity{Loader: LoaderID(class.Loader()), Name: class.Name()}
}

// LoaderID returns loader ID, empty for the bootstrap loader
func LoaderID(loader Loader) string {
	if loader == nil {
		return ""
	}
	return loader.ID()
}

// ResolutionError reports a type that a loader could not resolve
type ResolutionError struct {
	Class string
	Type  string
	Err   error
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("failed to resolve %s", e.Type)
	if e.Class != "" {
		msg += " required by " + e.Class
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
