package docs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/magiconair/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/docview/inspector"
	"github.com/viant/docview/platform"
)

type dirLoader struct {
	id   string
	root string
}

func (l *dirLoader) ID() string { return l.id }

func (l *dirLoader) Resource(ctx context.Context, name string) (string, bool) {
	location := filepath.Join(l.root, filepath.FromSlash(name))
	if _, err := os.Stat(location); err != nil {
		return "", false
	}
	return location, true
}

type fakeClass struct {
	inspector.Class
	name   string
	loader inspector.Loader
}

func (c *fakeClass) Name() string              { return c.name }
func (c *fakeClass) Loader() inspector.Loader { return c.loader }

// blockingFS holds the first download until release is closed
type blockingFS struct {
	afs.Service
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingFS() *blockingFS {
	return &blockingFS{Service: afs.New(), started: make(chan struct{}), release: make(chan struct{})}
}

func (f *blockingFS) DownloadWithURL(ctx context.Context, URL string, options ...storage.Option) ([]byte, error) {
	data, err := f.Service.DownloadWithURL(ctx, URL, options...)
	f.once.Do(func() {
		close(f.started)
		<-f.release
	})
	return data, err
}

type fakeSource struct {
	name     string
	comments []Comment
	panics   bool
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Comments() *properties.Properties {
	if s.panics {
		panic("compilation unit not parsed")
	}
	return ToProperties(s.comments)
}

const widgetContext = `#BlueJ class context
comment0.target=class Widget
comment0.text=A widget.
numComments=1
`

func writeContext(t *testing.T, root, relative, content string) string {
	location := filepath.Join(root, filepath.FromSlash(relative))
	require.NoError(t, os.MkdirAll(filepath.Dir(location), 0755))
	require.NoError(t, os.WriteFile(location, []byte(content), 0644))
	return location
}

func TestStore_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("missing context yields empty read-only unit", func(t *testing.T) {
		store := NewStore(WithPackageRoots(t.TempDir()))
		unit := store.Resolve(ctx, "demo.Missing")
		assert.True(t, unit.IsEmpty())
		assert.False(t, unit.Writable())
		assert.Equal(t, "demo.Missing", unit.ClassName())
		assert.Equal(t, 0, store.Len())
	})

	t.Run("package root", func(t *testing.T) {
		root := t.TempDir()
		writeContext(t, root, "demo/Widget.ctxt", widgetContext)
		store := NewStore(WithPackageRoots(root))

		unit := store.Resolve(ctx, "demo.Widget")
		comment, ok := unit.Find("class Widget")
		assert.True(t, ok)
		assert.Equal(t, "A widget.", comment.Text())
		assert.True(t, unit.Writable())
		assert.Same(t, unit, store.Resolve(ctx, "demo.Widget"))
		assert.Equal(t, 1, store.Len())
	})

	t.Run("loader is preferred over package roots", func(t *testing.T) {
		root := t.TempDir()
		writeContext(t, root, "demo/Widget.ctxt", widgetContext)
		loaderRoot := t.TempDir()
		writeContext(t, loaderRoot, "demo/Widget.ctxt", "numComments=1\ncomment0.target=class Widget\ncomment0.text=From loader.\n")

		store := NewStore(WithPackageRoots(root), WithLoader(&dirLoader{id: "app", root: loaderRoot}))
		comment, _ := store.Resolve(ctx, "demo.Widget").Find("class Widget")
		assert.Equal(t, "From loader.", comment.Text())
	})

	t.Run("class loader", func(t *testing.T) {
		loaderRoot := t.TempDir()
		writeContext(t, loaderRoot, "demo/Widget.ctxt", widgetContext)
		store := NewStore()
		class := &fakeClass{name: "demo.Widget", loader: &dirLoader{id: "app", root: loaderRoot}}
		assert.False(t, store.ResolveClass(ctx, class).IsEmpty())
		assert.True(t, store.Resolve(ctx, "demo.Other").IsEmpty())
	})

	t.Run("malformed content is empty", func(t *testing.T) {
		root := t.TempDir()
		writeContext(t, root, "demo/Broken.ctxt", "numComments=\\u00zz\n")
		store := NewStore(WithPackageRoots(root))
		unit := store.Resolve(ctx, "demo.Broken")
		assert.True(t, unit.IsEmpty())
	})
}

func TestStore_ConcurrentResolve(t *testing.T) {
	root := t.TempDir()
	writeContext(t, root, "demo/Widget.ctxt", widgetContext)
	store := NewStore(WithPackageRoots(root))

	const workers = 16
	units := make([]*Unit, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			units[i] = store.Resolve(context.Background(), "demo.Widget")
		}(i)
	}
	wg.Wait()
	for _, unit := range units {
		assert.Same(t, units[0], unit)
	}
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	dispatcher := platform.New()
	defer dispatcher.Close()

	root := t.TempDir()
	writeContext(t, root, "demo/Widget.ctxt", widgetContext)
	store := NewStore(WithPackageRoots(root), WithDispatcher(dispatcher))
	stale := store.Resolve(ctx, "demo.Widget")

	src := &fakeSource{name: "demo.Widget", comments: []Comment{
		NewComment("class Widget", "Updated."),
		NewComment("void resize(int)", "", "size"),
	}}
	unit, err := store.Update(ctx, "demo.Widget", src)
	require.NoError(t, err)
	assert.True(t, unit.Writable())
	assert.Len(t, unit.Comments(), 2)
	assert.Equal(t, 0, store.Len())

	data, err := os.ReadFile(filepath.Join(root, "demo", "Widget.ctxt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "#BlueJ class context\n")
	assert.Contains(t, string(data), "comment1.params=size\n")

	fresh := store.Resolve(ctx, "demo.Widget")
	assert.NotSame(t, stale, fresh)
	comment, _ := fresh.Find("class Widget")
	assert.Equal(t, "Updated.", comment.Text())
	assert.Equal(t, unit.Digest(), fresh.Digest())

	t.Run("new package directory", func(t *testing.T) {
		_, err := store.Update(ctx, "demo.shapes.Circle", &fakeSource{name: "demo.shapes.Circle"})
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(root, "demo", "shapes", "Circle.ctxt"))
		assert.NoError(t, err)
	})

	t.Run("extraction panic", func(t *testing.T) {
		_, err := store.Update(ctx, "demo.Widget", &fakeSource{name: "demo.Widget", panics: true})
		var panicErr *platform.PanicError
		assert.True(t, errors.As(err, &panicErr))
	})
}

func TestStore_UpdateErrors(t *testing.T) {
	ctx := context.Background()

	store := NewStore()
	_, err := store.Update(ctx, "demo.Widget", &fakeSource{name: "demo.Widget"})
	assert.ErrorIs(t, err, ErrNoPackageRoot)

	dispatcher := platform.New()
	dispatcher.Close()
	store = NewStore(WithPackageRoots(t.TempDir()), WithDispatcher(dispatcher))
	_, err = store.Update(ctx, "demo.Widget", &fakeSource{name: "demo.Widget"})
	assert.ErrorIs(t, err, platform.ErrClosed)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	location := writeContext(t, root, "demo/Widget.ctxt", widgetContext)
	store := NewStore(WithPackageRoots(root))

	assert.False(t, store.Delete(ctx, NewUnit("demo.Widget")))
	assert.False(t, store.Delete(ctx, nil))

	unit := store.Resolve(ctx, "demo.Widget")
	assert.True(t, store.Delete(ctx, unit))
	assert.True(t, unit.IsEmpty())
	assert.Equal(t, 0, store.Len())
	_, err := os.Stat(location)
	assert.True(t, os.IsNotExist(err))

	assert.False(t, store.Delete(ctx, unit))
}

func TestStore_Evict(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeContext(t, root, "demo/Widget.ctxt", widgetContext)
	writeContext(t, root, "demo/Gadget.ctxt", widgetContext)
	store := NewStore(WithPackageRoots(root))

	first := store.Resolve(ctx, "demo.Widget")
	store.Resolve(ctx, "demo.Gadget")
	assert.Equal(t, 2, store.Len())

	store.Evict("demo.Widget")
	store.Evict("demo.Unknown")
	assert.Equal(t, 1, store.Len())
	assert.NotSame(t, first, store.Resolve(ctx, "demo.Widget"))

	store.Clear()
	assert.Equal(t, 0, store.Len())
}

func TestStore_EvictDuringRead(t *testing.T) {
	ctx := context.Background()
	const edited = "numComments=1\ncomment0.target=class Widget\ncomment0.text=Edited.\n"
	var testCases = []struct {
		description string
		evict       func(store *Store)
	}{
		{description: "evict", evict: func(store *Store) { store.Evict("demo.Widget") }},
		{description: "clear", evict: func(store *Store) { store.Clear() }},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			root := t.TempDir()
			location := writeContext(t, root, "demo/Widget.ctxt", widgetContext)
			fs := newBlockingFS()
			store := NewStore(WithPackageRoots(root), WithFS(fs))

			inFlight := make(chan *Unit, 1)
			go func() {
				inFlight <- store.Resolve(ctx, "demo.Widget")
			}()
			<-fs.started
			require.NoError(t, os.WriteFile(location, []byte(edited), 0644))
			testCase.evict(store)
			close(fs.release)

			comment, _ := (<-inFlight).Find("class Widget")
			assert.Equal(t, "A widget.", comment.Text())
			assert.Equal(t, 0, store.Len())

			comment, _ = store.Resolve(ctx, "demo.Widget").Find("class Widget")
			assert.Equal(t, "Edited.", comment.Text())
			assert.Equal(t, 1, store.Len())
		})
	}
}

func TestStore_ContextPath(t *testing.T) {
	store := NewStore(WithSuffix(".ctx"))
	assert.Equal(t, "java/lang/String.ctx", store.ContextPath("java.lang.String"))
	assert.Equal(t, ".ctxt", NewStore().Suffix())
}
