package docs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/magiconair/properties"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/docview/inspector"
	"github.com/viant/docview/platform"
	"golang.org/x/sync/singleflight"
)

// DefaultSuffix is the context file suffix
const DefaultSuffix = ".ctxt"

// ErrNoPackageRoot is returned when a context has to be written but no package root is configured
var ErrNoPackageRoot = errors.New("no package root configured")

// Source provides freshly parsed documentation of a class.
// Implementations may require calls from the platform goroutine.
type Source interface {
	// Name returns the qualified class name
	Name() string

	// Comments returns the context property bag
	Comments() *properties.Properties
}

// Store resolves and caches documentation contexts by qualified class name
type Store struct {
	loader     inspector.Loader
	roots      []string
	suffix     string
	fs         afs.Service
	dispatcher *platform.Dispatcher
	logger     *log.Logger

	units sync.Map // qualified name -> *Unit
	group singleflight.Group

	mux         sync.Mutex
	epoch       uint64            // bumped by Clear
	generations map[string]uint64 // bumped by Evict
}

// Option configures a Store
type Option func(*Store)

// WithLoader sets the primary loader used for resource resolution
func WithLoader(loader inspector.Loader) Option {
	return func(s *Store) {
		s.loader = loader
	}
}

// WithPackageRoots sets file system package roots, the first one receives updated contexts
func WithPackageRoots(roots ...string) Option {
	return func(s *Store) {
		s.roots = append(s.roots, roots...)
	}
}

// WithSuffix overrides the context file suffix
func WithSuffix(suffix string) Option {
	return func(s *Store) {
		if suffix != "" {
			s.suffix = suffix
		}
	}
}

// WithFS sets the file system service
func WithFS(fs afs.Service) Option {
	return func(s *Store) {
		s.fs = fs
	}
}

// WithDispatcher sets the platform dispatcher used to extract Source data
func WithDispatcher(dispatcher *platform.Dispatcher) Option {
	return func(s *Store) {
		s.dispatcher = dispatcher
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a context store
func NewStore(options ...Option) *Store {
	s := &Store{suffix: DefaultSuffix, generations: map[string]uint64{}}
	for _, option := range options {
		option(s)
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Suffix returns the context file suffix
func (s *Store) Suffix() string {
	return s.suffix
}

// PackageRoots returns configured package roots
func (s *Store) PackageRoots() []string {
	return s.roots
}

// ContextPath returns the relative context file path of a class, e.g. java/lang/String.ctxt
func (s *Store) ContextPath(qualifiedName string) string {
	return strings.ReplaceAll(qualifiedName, ".", "/") + s.suffix
}

// Resolve returns the context of a class: cached, from the primary loader, from package roots,
// or an empty read-only unit when no context file exists
func (s *Store) Resolve(ctx context.Context, qualifiedName string) *Unit {
	if unit, ok := s.cached(qualifiedName); ok {
		return unit
	}
	if s.loader != nil {
		if unit := s.fromLoader(ctx, s.loader, qualifiedName); unit != nil {
			return unit
		}
	}
	location := s.ContextPath(qualifiedName)
	for _, root := range s.roots {
		URL := url.Join(root, location)
		if ok, _ := s.fs.Exists(ctx, URL); !ok {
			continue
		}
		if unit := s.load(ctx, qualifiedName, URL); unit != nil {
			return unit
		}
	}
	return NewUnit(qualifiedName)
}

// ResolveClass returns the context of a class, preferring the class's own loader
func (s *Store) ResolveClass(ctx context.Context, class inspector.Class) *Unit {
	name := class.Name()
	if unit, ok := s.cached(name); ok {
		return unit
	}
	if loader := class.Loader(); loader != nil {
		if unit := s.fromLoader(ctx, loader, name); unit != nil {
			return unit
		}
	}
	return s.Resolve(ctx, name)
}

// Update stores documentation produced by src for a class, replacing its context file.
// Source data is extracted on the platform goroutine when a dispatcher is configured.
func (s *Store) Update(ctx context.Context, qualifiedName string, src Source) (*Unit, error) {
	className, comments, data, err := s.render(ctx, qualifiedName, src)
	if err != nil {
		return nil, err
	}
	if len(s.roots) == 0 {
		return nil, fmt.Errorf("failed to write context for %v: %w", qualifiedName, ErrNoPackageRoot)
	}
	URL := url.Join(s.roots[0], s.ContextPath(qualifiedName))
	if err = s.write(ctx, URL, data); err != nil {
		return nil, fmt.Errorf("failed to write context %v: %w", URL, err)
	}
	s.Evict(qualifiedName)

	unit := newFileUnit(className, URL, true, Digest(data))
	unit.setComments(comments)
	return unit, nil
}

// render extracts src documentation and encodes it in context file format
func (s *Store) render(ctx context.Context, qualifiedName string, src Source) (string, []Comment, []byte, error) {
	var className string
	var props *properties.Properties
	extract := func(ctx context.Context) error {
		className = src.Name()
		props = src.Comments()
		return nil
	}
	var err error
	if s.dispatcher != nil {
		err = s.dispatcher.Call(ctx, extract)
	} else {
		err = extract(ctx)
	}
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to extract class info for %v: %w", qualifiedName, err)
	}
	if className == "" {
		className = qualifiedName
	}
	comments := FromProperties(props)
	buffer := &bytes.Buffer{}
	if err = Encode(buffer, comments); err != nil {
		return "", nil, nil, fmt.Errorf("failed to encode context for %v: %w", qualifiedName, err)
	}
	return className, comments, buffer.Bytes(), nil
}

// Evict removes a cached context; it reports whether an entry was cached, which callers should not rely on
func (s *Store) Evict(qualifiedName string) bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.generations[qualifiedName]++
	_, ok := s.units.LoadAndDelete(qualifiedName)
	return ok
}

// Clear removes all cached contexts
func (s *Store) Clear() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.epoch++
	s.units.Range(func(key, _ interface{}) bool {
		s.units.Delete(key)
		return true
	})
}

// version changes whenever qualifiedName is evicted or the store is cleared; callers hold mux
func (s *Store) version(qualifiedName string) uint64 {
	return s.epoch + s.generations[qualifiedName]
}

// Len returns number of cached contexts
func (s *Store) Len() int {
	count := 0
	s.units.Range(func(_, _ interface{}) bool {
		count++
		return true
	})
	return count
}

// Delete removes the backing file of a writable unit and clears it; false for read-only or absent files
func (s *Store) Delete(ctx context.Context, unit *Unit) bool {
	if unit == nil || !unit.Writable() {
		return false
	}
	if ok, _ := s.fs.Exists(ctx, unit.URL()); !ok {
		return false
	}
	if err := s.fs.Delete(ctx, unit.URL()); err != nil {
		s.logger.Printf("failed to delete context %v: %v", unit.URL(), err)
		return false
	}
	unit.Clear()
	if cached, ok := s.cached(unit.ClassName()); ok && cached == unit {
		s.Evict(unit.ClassName())
	}
	return true
}

// Close releases cached contexts
func (s *Store) Close() error {
	s.Clear()
	return nil
}

func (s *Store) cached(qualifiedName string) (*Unit, bool) {
	value, ok := s.units.Load(qualifiedName)
	if !ok {
		return nil, false
	}
	return value.(*Unit), true
}

func (s *Store) fromLoader(ctx context.Context, loader inspector.Loader, qualifiedName string) *Unit {
	URL, ok := loader.Resource(ctx, s.ContextPath(qualifiedName))
	if !ok {
		return nil
	}
	return s.load(ctx, qualifiedName, URL)
}

// load reads a context file at most once per name and version, concurrent callers share the result.
// A unit read across an eviction is returned but not cached.
func (s *Store) load(ctx context.Context, qualifiedName, URL string) *Unit {
	s.mux.Lock()
	version := s.version(qualifiedName)
	s.mux.Unlock()
	key := qualifiedName + "@" + strconv.FormatUint(version, 10)
	value, _, _ := s.group.Do(key, func() (interface{}, error) {
		if unit, ok := s.cached(qualifiedName); ok {
			return unit, nil
		}
		unit := s.read(ctx, qualifiedName, URL)
		if unit == nil {
			return (*Unit)(nil), nil
		}
		s.mux.Lock()
		defer s.mux.Unlock()
		if s.version(qualifiedName) != version {
			return unit, nil
		}
		actual, _ := s.units.LoadOrStore(qualifiedName, unit)
		return actual.(*Unit), nil
	})
	unit, _ := value.(*Unit)
	return unit
}

// read parses a context file; unreadable files are treated as absent, malformed content as empty
func (s *Store) read(ctx context.Context, qualifiedName, URL string) *Unit {
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		s.logger.Printf("failed to read context %v: %v", URL, err)
		return nil
	}
	comments, err := Decode(data)
	if err != nil {
		s.logger.Printf("failed to parse context %v: %v", URL, err)
	}
	unit := newFileUnit(qualifiedName, URL, s.isWritable(ctx, URL), Digest(data))
	unit.setComments(comments)
	return unit
}

func (s *Store) isWritable(ctx context.Context, URL string) bool {
	if url.Scheme(URL, file.Scheme) != file.Scheme {
		return false
	}
	object, err := s.fs.Object(ctx, URL)
	if err != nil {
		return false
	}
	return object.Mode().Perm()&0200 != 0
}

func (s *Store) write(ctx context.Context, URL string, data []byte) error {
	if index := strings.LastIndex(URL, "/"); index > 0 {
		if err := s.ensureDir(ctx, URL[:index]); err != nil {
			return err
		}
	}
	return s.fs.Upload(ctx, URL, os.FileMode(0644), bytes.NewReader(data))
}

func (s *Store) ensureDir(ctx context.Context, parent string) error {
	if ok, _ := s.fs.Exists(ctx, parent); !ok {
		if err := s.fs.Create(ctx, parent, os.FileMode(0755), true); err != nil {
			return err
		}
	}
	return nil
}
