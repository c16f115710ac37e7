package view

import (
	"context"

	"github.com/viant/docview/docs"
)

// binding holds comments resolved for one view
type binding struct {
	class   *docs.Comment
	members map[*MemberView]docs.Comment
}

// LoadComments binds documentation to this view, once until ResetComments
func (c *ClassView) LoadComments(ctx context.Context) {
	c.loadBinding(ctx)
}

// Comment returns the class level comment of this class; ancestors' class comments are not inherited
func (c *ClassView) Comment(ctx context.Context) (docs.Comment, bool) {
	b := c.loadBinding(ctx)
	if b.class == nil {
		return docs.Comment{}, false
	}
	return *b.class, true
}

// MemberComment returns the comment bound to a member of this view
func (c *ClassView) MemberComment(ctx context.Context, member *MemberView) (docs.Comment, bool) {
	comment, ok := c.loadBinding(ctx).members[member]
	return comment, ok
}

// ResetComments drops bound comments; the next access binds again
func (c *ClassView) ResetComments() {
	c.bindMux.Lock()
	c.binding = nil
	c.bindMux.Unlock()
}

func (c *ClassView) loadBinding(ctx context.Context) *binding {
	c.bindMux.Lock()
	defer c.bindMux.Unlock()
	if c.binding == nil {
		c.binding = c.bind(ctx)
	}
	return c.binding
}

// bind matches context entries of every ancestor, root first, against merged members by signature;
// entries of more derived classes overwrite earlier ones
func (c *ClassView) bind(ctx context.Context) *binding {
	table := map[string]*MemberView{}
	for _, members := range [][]*MemberView{c.AllFields(ctx), c.Constructors(), c.AllMethods(ctx)} {
		for _, member := range members {
			table[member.signature] = member
		}
	}
	result := &binding{members: map[*MemberView]docs.Comment{}}
	for _, ancestor := range c.Hierarchy(ctx) {
		unit := c.cache.store.ResolveClass(ctx, ancestor.class)
		for _, comment := range unit.Comments() {
			if comment.IsClass() {
				if ancestor == c {
					classComment := comment
					result.class = &classComment
				}
				continue
			}
			if member, ok := table[comment.Target()]; ok {
				result.members[member] = comment
			}
		}
	}
	return result
}
