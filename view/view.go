package view

import (
	"context"
	"sync"

	"github.com/viant/docview/inspector"
)

// ClassView is the merged, lazily computed structural description of one class.
// Every slot is computed at most once; views are owned by a Cache.
type ClassView struct {
	class    inspector.Class
	identity inspector.Identity
	cache    *Cache

	superOnce  sync.Once
	super      *ClassView
	ifaceOnce  sync.Once
	interfaces []*ClassView

	fieldsOnce       sync.Once
	fields           []*MemberView
	methodsOnce      sync.Once
	methods          []*MemberView
	constructorsOnce sync.Once
	constructors     []*MemberView
	typeParamsOnce   sync.Once
	typeParams       []inspector.TypeParam

	// merged slots are guarded by Cache.mergeMux
	fieldsMerged  bool
	mergedFields  []*MemberView
	methodsMerged bool
	mergedMethods []*MemberView

	bindMux sync.Mutex
	binding *binding
}

func newClassView(class inspector.Class, cache *Cache) *ClassView {
	return &ClassView{class: class, identity: inspector.IdentityOf(class), cache: cache}
}

// Class returns the underlying class
func (c *ClassView) Class() inspector.Class {
	return c.class
}

// Identity returns class identity
func (c *ClassView) Identity() inspector.Identity {
	return c.identity
}

// Name returns the qualified class name
func (c *ClassView) Name() string {
	return c.identity.Name
}

// PackageName returns the package of the class
func (c *ClassView) PackageName() string {
	return inspector.PackageName(c.identity.Name)
}

// BaseName returns the simple class name
func (c *ClassView) BaseName() string {
	return inspector.SimpleName(c.identity.Name)
}

// IsInterface reports whether the view describes an interface
func (c *ClassView) IsInterface() bool {
	return c.class.IsInterface()
}

// Super returns the superclass view, nil at the hierarchy root and for interfaces
func (c *ClassView) Super(ctx context.Context) *ClassView {
	c.superOnce.Do(func() {
		if super := c.class.Superclass(ctx); super != nil {
			c.super = c.cache.ViewFor(super)
		}
	})
	return c.super
}

// Interfaces returns views of directly implemented or extended interfaces
func (c *ClassView) Interfaces(ctx context.Context) []*ClassView {
	c.ifaceOnce.Do(func() {
		for _, iface := range c.class.Interfaces(ctx) {
			c.interfaces = append(c.interfaces, c.cache.ViewFor(iface))
		}
	})
	return c.interfaces
}

// Fields returns fields declared by this class
func (c *ClassView) Fields() []*MemberView {
	c.fieldsOnce.Do(func() {
		c.fields = c.members(inspector.KindField, c.class.DeclaredFields)
	})
	return c.fields
}

// Methods returns methods declared by this class
func (c *ClassView) Methods() []*MemberView {
	c.methodsOnce.Do(func() {
		c.methods = c.members(inspector.KindMethod, c.class.DeclaredMethods)
	})
	return c.methods
}

// Constructors returns constructors declared by this class
func (c *ClassView) Constructors() []*MemberView {
	c.constructorsOnce.Do(func() {
		c.constructors = c.members(inspector.KindConstructor, c.class.DeclaredConstructors)
	})
	return c.constructors
}

// TypeParams returns generic type parameters, empty when they cannot be resolved
func (c *ClassView) TypeParams() []inspector.TypeParam {
	c.typeParamsOnce.Do(func() {
		params, err := c.class.TypeParams()
		if err != nil {
			c.cache.logger.Printf("failed to list type parameters of %v: %v", c.Name(), err)
			return
		}
		c.typeParams = params
	})
	return c.typeParams
}

// AllFields returns own and inherited fields, each signature once
func (c *ClassView) AllFields(ctx context.Context) []*MemberView {
	c.cache.mergeMux.Lock()
	defer c.cache.mergeMux.Unlock()
	return clone(c.allFields(ctx))
}

// AllMethods returns own and inherited methods, each signature once
func (c *ClassView) AllMethods(ctx context.Context) []*MemberView {
	c.cache.mergeMux.Lock()
	defer c.cache.mergeMux.Unlock()
	return clone(c.allMethods(ctx))
}

// Hierarchy returns the superclass chain from the root down to this view
func (c *ClassView) Hierarchy(ctx context.Context) []*ClassView {
	var chain []*ClassView
	seen := map[inspector.Identity]bool{}
	for view := c; view != nil && !seen[view.identity]; view = view.Super(ctx) {
		seen[view.identity] = true
		chain = append(chain, view)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func (c *ClassView) String() string {
	return c.identity.String()
}

func clone(members []*MemberView) []*MemberView {
	if len(members) == 0 {
		return nil
	}
	result := make([]*MemberView, len(members))
	copy(result, members)
	return result
}
