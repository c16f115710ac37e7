package view

import (
	"context"

	"github.com/viant/docview/docs"
	"github.com/viant/docview/inspector"
)

// MemberView represents a field, method or constructor declared by one class view
type MemberView struct {
	class     *ClassView
	decl      inspector.Member
	signature string
}

func newMemberView(class *ClassView, decl inspector.Member) *MemberView {
	return &MemberView{class: class, decl: decl, signature: inspector.Signature(decl)}
}

// Kind returns member kind
func (m *MemberView) Kind() inspector.MemberKind {
	return m.decl.Kind
}

// Name returns member name
func (m *MemberView) Name() string {
	return m.decl.Name
}

// Class returns the declaring class view
func (m *MemberView) Class() *ClassView {
	return m.class
}

// Declaration returns the underlying member description
func (m *MemberView) Declaration() inspector.Member {
	return m.decl
}

// Signature returns the canonical signature, also the comment target
func (m *MemberView) Signature() string {
	return m.signature
}

// Comment returns the comment bound to this member by its declaring view.
// A view inheriting the member binds it on its own, see ClassView.MemberComment:
// texts differ when a subclass context redocuments the member, and members
// inherited from interfaces are not bound by the inheriting view at all.
func (m *MemberView) Comment(ctx context.Context) (docs.Comment, bool) {
	return m.class.MemberComment(ctx, m)
}

func (m *MemberView) String() string {
	return m.class.Name() + "#" + m.signature
}
