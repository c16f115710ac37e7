package view

import (
	"errors"

	"github.com/viant/docview/inspector"
)

// members builds member views for one declared category.
// Synthetic members are hidden; a member that failed to construct is skipped,
// and a failed category degrades to an empty list.
func (c *ClassView) members(kind inspector.MemberKind, list func() ([]inspector.Member, error)) []*MemberView {
	declared, err := list()
	if err != nil {
		var resolutionErr *inspector.ResolutionError
		if errors.As(err, &resolutionErr) {
			c.cache.logger.Printf("failed to list %v members of %v, missing type %v: %v", kind, c.Name(), resolutionErr.Type, err)
		} else {
			c.cache.logger.Printf("failed to list %v members of %v: %v", kind, c.Name(), err)
		}
		return nil
	}
	result := make([]*MemberView, 0, len(declared))
	for _, member := range declared {
		if member.Synthetic {
			continue
		}
		if member.Err != nil {
			c.cache.logger.Printf("skipping %v %v of %v: %v", kind, member.Name, c.Name(), member.Err)
			continue
		}
		result = append(result, newMemberView(c, member))
	}
	return result
}
