package view

import (
	"context"

	"github.com/viant/docview/inspector"
)

// mergeSet accumulates members by signature: a repeated signature replaces
// the earlier member but keeps its position
type mergeSet struct {
	index   map[string]int
	members []*MemberView
}

func newMergeSet() *mergeSet {
	return &mergeSet{index: map[string]int{}}
}

func (s *mergeSet) add(members ...*MemberView) {
	for _, member := range members {
		if pos, ok := s.index[member.signature]; ok {
			s.members[pos] = member
			continue
		}
		s.index[member.signature] = len(s.members)
		s.members = append(s.members, member)
	}
}

type pathKey struct{}

// enter records identity on the merge path carried by ctx; false when identity is already on it
func enter(ctx context.Context, identity inspector.Identity) (context.Context, bool) {
	path, _ := ctx.Value(pathKey{}).(map[inspector.Identity]bool)
	if path[identity] {
		return ctx, false
	}
	next := make(map[inspector.Identity]bool, len(path)+1)
	for key := range path {
		next[key] = true
	}
	next[identity] = true
	return context.WithValue(ctx, pathKey{}, next), true
}

// mergeFields folds superclass fields, then fields of every interface, then own fields
func (c *ClassView) mergeFields(ctx context.Context) []*MemberView {
	set := newMergeSet()
	if super := c.Super(ctx); super != nil {
		set.add(super.allFields(ctx)...)
	}
	for _, iface := range c.Interfaces(ctx) {
		set.add(iface.allFields(ctx)...)
	}
	set.add(c.Fields()...)
	return set.members
}

// mergeMethods folds superclass methods, superinterface methods for interface views only, then own methods
func (c *ClassView) mergeMethods(ctx context.Context) []*MemberView {
	set := newMergeSet()
	if super := c.Super(ctx); super != nil {
		set.add(super.allMethods(ctx)...)
	}
	if c.IsInterface() {
		for _, iface := range c.Interfaces(ctx) {
			set.add(iface.allMethods(ctx)...)
		}
	}
	set.add(c.Methods()...)
	return set.members
}

// allFields and allMethods memoize merged sequences; callers hold Cache.mergeMux
func (c *ClassView) allFields(ctx context.Context) []*MemberView {
	if c.fieldsMerged {
		return c.mergedFields
	}
	ctx, ok := enter(ctx, c.identity)
	if !ok {
		c.cache.logger.Printf("cyclic hierarchy at %v", c.identity)
		return nil
	}
	c.mergedFields = c.mergeFields(ctx)
	c.fieldsMerged = true
	return c.mergedFields
}

func (c *ClassView) allMethods(ctx context.Context) []*MemberView {
	if c.methodsMerged {
		return c.mergedMethods
	}
	ctx, ok := enter(ctx, c.identity)
	if !ok {
		c.cache.logger.Printf("cyclic hierarchy at %v", c.identity)
		return nil
	}
	c.mergedMethods = c.mergeMethods(ctx)
	c.methodsMerged = true
	return c.mergedMethods
}
