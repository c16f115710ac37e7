package docview

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/viant/docview/config"
	"github.com/viant/docview/docs"
	"github.com/viant/docview/inspector/java"
	"github.com/viant/docview/inspector/repository"
	"github.com/viant/docview/platform"
	"github.com/viant/docview/view"
)

// Session owns the loaders, context store, view cache and platform dispatcher of one project
type Session struct {
	config     *config.Config
	project    *repository.Project
	logger     *log.Logger
	dispatcher *platform.Dispatcher
	parent     *java.Loader
	store      *docs.Store
	cache      *view.Cache
	watcher    *docs.Watcher

	mux        sync.RWMutex
	loader     *java.Loader
	generation int
	closeOnce  sync.Once
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger shared by session components
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New creates a session; project layout is detected when roots are not configured explicitly
func New(ctx context.Context, cfg *config.Config, options ...Option) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{config: cfg}
	for _, option := range options {
		option(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	sourceRoots, packageRoots := cfg.SourceRoots, cfg.PackageRoots
	if cfg.Project != "" {
		project, err := repository.New().DetectProject(ctx, cfg.Project)
		if err != nil {
			return nil, fmt.Errorf("failed to detect project %v: %w", cfg.Project, err)
		}
		s.project = project
		if len(sourceRoots) == 0 {
			sourceRoots = project.SourceRoots
		}
		if len(packageRoots) == 0 {
			packageRoots = project.PackageRoots
		}
	}
	if len(packageRoots) == 0 && len(sourceRoots) > 0 {
		packageRoots = sourceRoots[:1]
	}

	s.dispatcher = platform.New()
	storeOptions := []docs.Option{
		docs.WithPackageRoots(packageRoots...),
		docs.WithSuffix(cfg.ContextSuffix),
		docs.WithDispatcher(s.dispatcher),
		docs.WithLogger(s.logger),
	}
	if len(cfg.PlatformRoots) > 0 {
		s.parent = java.NewLoader("platform", cfg.PlatformRoots, java.WithSourceSuffix(cfg.SourceSuffix), java.WithLogger(s.logger))
		storeOptions = append(storeOptions, docs.WithLoader(s.parent))
	}
	s.store = docs.NewStore(storeOptions...)
	s.cache = view.New(s.store, view.WithLogger(s.logger))
	s.loader = s.newLoader(sourceRoots)

	if cfg.Watch {
		watcher, err := docs.NewWatcher(s.store, cfg.Debounce)
		if err != nil {
			s.dispatcher.Close()
			return nil, fmt.Errorf("failed to create context watcher: %w", err)
		}
		if err = watcher.Start(); err != nil {
			watcher.Stop()
			s.dispatcher.Close()
			return nil, fmt.Errorf("failed to start context watcher: %w", err)
		}
		s.watcher = watcher
		go s.refresh()
	}
	return s, nil
}

func (s *Session) newLoader(roots []string) *java.Loader {
	id := s.config.LoaderID
	if s.generation > 0 {
		id = fmt.Sprintf("%v#%d", id, s.generation)
	}
	options := []java.Option{java.WithSourceSuffix(s.config.SourceSuffix), java.WithLogger(s.logger)}
	if s.parent != nil {
		options = append(options, java.WithParent(s.parent))
	}
	return java.NewLoader(id, roots, options...)
}

// refresh drops comment bindings whenever the watcher evicts a changed context
func (s *Session) refresh() {
	for range s.watcher.Evicted {
		s.cache.ResetComments()
	}
}

// Project returns the detected project, nil when roots were configured explicitly
func (s *Session) Project() *repository.Project {
	return s.project
}

// Store returns the context store
func (s *Session) Store() *docs.Store {
	return s.store
}

// Cache returns the view cache
func (s *Session) Cache() *view.Cache {
	return s.cache
}

// Loader returns the current project loader
func (s *Session) Loader() *java.Loader {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.loader
}

// ViewFor returns the view of a class visible to the project loader
func (s *Session) ViewFor(ctx context.Context, qualifiedName string) (*view.ClassView, error) {
	class, err := s.Loader().Class(ctx, qualifiedName)
	if err != nil {
		return nil, err
	}
	return s.cache.ViewFor(class), nil
}

// Views returns views of every project class
func (s *Session) Views(ctx context.Context) ([]*view.ClassView, error) {
	classes, err := s.Loader().Scan(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*view.ClassView, 0, len(classes))
	for _, class := range classes {
		result = append(result, s.cache.ViewFor(class))
	}
	return result, nil
}

// Update parses Java source and stores its documentation as the context of its first top-level type
func (s *Session) Update(ctx context.Context, source []byte) (*docs.Unit, error) {
	var unit *docs.Unit
	err := s.withClassInfo(ctx, source, func(name string, info *java.ClassInfo) error {
		var err error
		unit, err = s.store.Update(ctx, name, info)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.cache.ResetComments()
	return unit, nil
}

// Preview returns the unified diff Update would apply to the stored context
func (s *Session) Preview(ctx context.Context, source []byte) (string, error) {
	var diff string
	err := s.withClassInfo(ctx, source, func(name string, info *java.ClassInfo) error {
		var err error
		diff, err = s.store.Preview(ctx, name, info)
		return err
	})
	return diff, err
}

// withClassInfo parses source on the platform goroutine and releases the parse when fn returns
func (s *Session) withClassInfo(ctx context.Context, source []byte, fn func(name string, info *java.ClassInfo) error) error {
	var info *java.ClassInfo
	var name string
	err := s.dispatcher.Call(ctx, func(ctx context.Context) error {
		var err error
		if info, err = java.ParseClassInfo(ctx, source); err != nil {
			return err
		}
		name = info.Name()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to parse source: %w", err)
	}
	defer func() {
		_ = s.dispatcher.Call(context.Background(), func(ctx context.Context) error {
			info.Close()
			return nil
		})
	}()
	if name == "" {
		return fmt.Errorf("failed to update context: source declares no type")
	}
	return fn(name, info)
}

// Delete removes the context file of a class
func (s *Session) Delete(ctx context.Context, qualifiedName string) bool {
	if !s.store.Delete(ctx, s.store.Resolve(ctx, qualifiedName)) {
		return false
	}
	s.cache.ResetComments()
	return true
}

// Reload replaces the project loader so changed sources are parsed again; views and contexts
// of the previous loader are evicted
func (s *Session) Reload() {
	s.mux.Lock()
	previous := s.loader
	s.generation++
	s.loader = s.newLoader(previous.Roots())
	s.mux.Unlock()
	s.cache.EvictAll(previous.ID())
}

// Close stops the watcher and the platform dispatcher
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.watcher != nil {
			s.watcher.Stop()
		}
		s.dispatcher.Close()
		_ = s.store.Close()
	})
	return nil
}
