package java

import (
	"context"
	"strings"
	"sync"

	"github.com/viant/docview/inspector"
)

const objectClass = "java.lang.Object"

// Class represents a top-level Java class or interface parsed from source
type Class struct {
	loader *Loader
	unit   *compilationUnit
	decl   *declaration

	superOnce  sync.Once
	super      *Class
	ifaceOnce  sync.Once
	interfaces []inspector.Class
}

// Name returns the fully qualified class name
func (c *Class) Name() string {
	if c.unit.pkg == "" {
		return c.decl.name
	}
	return c.unit.pkg + "." + c.decl.name
}

// Loader returns the defining loader
func (c *Class) Loader() inspector.Loader {
	return c.loader
}

// IsInterface reports whether the class is an interface
func (c *Class) IsInterface() bool {
	return c.decl.isInterface
}

// Comment returns the class javadoc text
func (c *Class) Comment() string {
	return c.decl.comment
}

// Modifiers returns declared modifiers
func (c *Class) Modifiers() []string {
	return c.decl.modifiers
}

// Superclass returns the resolved superclass; classes without extends clause resolve java.lang.Object when visible
func (c *Class) Superclass(ctx context.Context) inspector.Class {
	c.superOnce.Do(func() {
		if c.decl.isInterface || c.Name() == objectClass {
			return
		}
		name := c.decl.superclass
		if name == "" {
			name = objectClass
		}
		c.super = c.resolve(ctx, name)
		if c.super == nil && c.decl.superclass != "" {
			c.loader.logger.Printf("failed to resolve superclass %v of %v", name, c.Name())
		}
	})
	if c.super == nil {
		return nil
	}
	return c.super
}

// Interfaces returns resolved implemented or extended interfaces, unresolved ones are dropped
func (c *Class) Interfaces(ctx context.Context) []inspector.Class {
	c.ifaceOnce.Do(func() {
		for _, name := range c.decl.interfaces {
			iface := c.resolve(ctx, name)
			if iface == nil {
				c.loader.logger.Printf("failed to resolve interface %v of %v", name, c.Name())
				continue
			}
			c.interfaces = append(c.interfaces, iface)
		}
	})
	return c.interfaces
}

// DeclaredFields returns declared fields
func (c *Class) DeclaredFields() ([]inspector.Member, error) {
	return c.members(c.decl.fields)
}

// DeclaredMethods returns declared methods
func (c *Class) DeclaredMethods() ([]inspector.Member, error) {
	return c.members(c.decl.methods)
}

// DeclaredConstructors returns declared constructors, including the implicit one
func (c *Class) DeclaredConstructors() ([]inspector.Member, error) {
	return c.members(c.decl.constructors)
}

// TypeParams returns declared type parameters
func (c *Class) TypeParams() ([]inspector.TypeParam, error) {
	if err := c.bodyErr(); err != nil {
		return nil, err
	}
	return c.decl.typeParams, nil
}

func (c *Class) members(members []inspector.Member) ([]inspector.Member, error) {
	if err := c.bodyErr(); err != nil {
		return nil, err
	}
	result := make([]inspector.Member, len(members))
	copy(result, members)
	return result, nil
}

func (c *Class) bodyErr() error {
	if c.decl.bodyErr == nil {
		return nil
	}
	if resolutionErr, ok := c.decl.bodyErr.(*inspector.ResolutionError); ok {
		return &inspector.ResolutionError{Class: c.Name(), Type: resolutionErr.Type, Err: resolutionErr.Err}
	}
	return c.decl.bodyErr
}

// resolve finds a referenced type: explicit import, same package, on-demand imports, java.lang, then as written
func (c *Class) resolve(ctx context.Context, typeName string) *Class {
	typeName = inspector.TypeName(typeName)
	if typeName == "" || isPrimitive(typeName) {
		return nil
	}
	var candidates []string
	head := typeName
	rest := ""
	if idx := strings.Index(typeName, "."); idx != -1 {
		head, rest = typeName[:idx], typeName[idx:]
	}
	if qualified, ok := c.unit.imports[head]; ok {
		candidates = append(candidates, qualified+rest)
	}
	if c.unit.pkg != "" {
		candidates = append(candidates, c.unit.pkg+"."+typeName)
	} else {
		candidates = append(candidates, typeName)
	}
	for _, pkg := range c.unit.wildcards {
		candidates = append(candidates, pkg+"."+typeName)
	}
	candidates = append(candidates, "java.lang."+typeName, typeName)

	seen := map[string]bool{}
	for _, candidate := range candidates {
		if seen[candidate] || candidate == c.Name() {
			continue
		}
		seen[candidate] = true
		if class, ok := c.loader.lookup(ctx, candidate); ok {
			return class
		}
	}
	return nil
}
