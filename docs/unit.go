package docs

import (
	"fmt"
	"path"
	"regexp"
	"sync"
)

// Unit holds the documentation context of one compilation unit
type Unit struct {
	className string
	url       string
	writable  bool
	digest    uint64

	mux      sync.RWMutex
	comments []Comment
}

// NewUnit creates an empty read-only unit, used when no context file exists
func NewUnit(className string) *Unit {
	return &Unit{className: className}
}

func newFileUnit(className, URL string, writable bool, digest uint64) *Unit {
	return &Unit{className: className, url: URL, writable: writable, digest: digest}
}

// ClassName returns the documented class name
func (u *Unit) ClassName() string {
	return u.className
}

// URL returns backing context file URL, empty for synthesized units
func (u *Unit) URL() string {
	return u.url
}

// Writable reports whether the unit is backed by a writable file
func (u *Unit) Writable() bool {
	return u.writable && u.url != ""
}

// Digest returns the content digest of the backing file at load time
func (u *Unit) Digest() uint64 {
	return u.digest
}

// Comments returns a copy of comments in file order
func (u *Unit) Comments() []Comment {
	u.mux.RLock()
	defer u.mux.RUnlock()
	result := make([]Comment, len(u.comments))
	copy(result, u.comments)
	return result
}

// Add appends a comment
func (u *Unit) Add(comment Comment) {
	u.mux.Lock()
	defer u.mux.Unlock()
	u.comments = append(u.comments, comment)
}

func (u *Unit) setComments(comments []Comment) {
	u.mux.Lock()
	defer u.mux.Unlock()
	u.comments = comments
}

// Clear removes all comments
func (u *Unit) Clear() {
	u.setComments(nil)
}

// IsEmpty reports whether the unit has no comments
func (u *Unit) IsEmpty() bool {
	u.mux.RLock()
	defer u.mux.RUnlock()
	return len(u.comments) == 0
}

// Find returns the comment for a target signature
func (u *Unit) Find(target string) (Comment, bool) {
	u.mux.RLock()
	defer u.mux.RUnlock()
	for _, comment := range u.comments {
		if comment.target == target {
			return comment, true
		}
	}
	return Comment{}, false
}

// FindMatching returns comments whose whole target matches expr; an invalid expression matches nothing
func (u *Unit) FindMatching(expr string) []Comment {
	matcher, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return nil
	}
	u.mux.RLock()
	defer u.mux.RUnlock()
	var result []Comment
	for _, comment := range u.comments {
		if matcher.MatchString(comment.target) {
			result = append(result, comment)
		}
	}
	return result
}

func (u *Unit) String() string {
	file := "<none>"
	if u.url != "" {
		file = path.Base(u.url)
	}
	u.mux.RLock()
	defer u.mux.RUnlock()
	return fmt.Sprintf("Unit[class=%v, comments=%v, file=%v]", u.className, len(u.comments), file)
}
