package view

import (
	"log"
	"sync"

	"github.com/viant/docview/docs"
	"github.com/viant/docview/inspector"
)

// Cache memoizes class views by class identity
type Cache struct {
	store  *docs.Store
	logger *log.Logger

	mux   sync.Mutex
	views map[inspector.Identity]*ClassView

	mergeMux sync.Mutex // serializes hierarchy merges
}

// Option configures a Cache
type Option func(*Cache)

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New creates a view cache binding comments from store
func New(store *docs.Store, options ...Option) *Cache {
	c := &Cache{store: store, views: map[inspector.Identity]*ClassView{}}
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// Store returns the context store
func (c *Cache) Store() *docs.Store {
	return c.store
}

// ViewFor returns the view of class, building it on first request; nil class yields nil
func (c *Cache) ViewFor(class inspector.Class) *ClassView {
	if class == nil {
		return nil
	}
	identity := inspector.IdentityOf(class)
	c.mux.Lock()
	defer c.mux.Unlock()
	if view, ok := c.views[identity]; ok {
		return view
	}
	view := newClassView(class, c)
	c.views[identity] = view
	return view
}

// EvictAll removes views of classes defined by the loader and evicts their contexts by name.
// It returns the number of removed views.
func (c *Cache) EvictAll(loaderID string) int {
	c.mux.Lock()
	var names []string
	for identity := range c.views {
		if identity.Loader != loaderID {
			continue
		}
		delete(c.views, identity)
		names = append(names, identity.Name)
	}
	c.mux.Unlock()
	for _, name := range names {
		c.store.Evict(name)
	}
	return len(names)
}

// ResetComments drops comment bindings of every view, used after contexts change on disk
func (c *Cache) ResetComments() {
	c.mux.Lock()
	views := make([]*ClassView, 0, len(c.views))
	for _, view := range c.views {
		views = append(views, view)
	}
	c.mux.Unlock()
	for _, view := range views {
		view.ResetComments()
	}
}

// Len returns number of cached views
func (c *Cache) Len() int {
	c.mux.Lock()
	defer c.mux.Unlock()
	return len(c.views)
}
