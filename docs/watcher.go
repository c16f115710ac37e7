package docs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// DefaultDebounce is the quiet period before a changed context file is processed
const DefaultDebounce = 100 * time.Millisecond

// Watcher evicts cached contexts whose files change on disk under the store's local package roots
type Watcher struct {
	// Evicted receives qualified names of evicted contexts
	Evicted <-chan string

	store    *Store
	roots    []string
	debounce time.Duration
	evicted  chan string
	done     chan struct{}
	watcher  *fsnotify.Watcher
	stopOnce sync.Once
}

// NewWatcher creates a watcher for store package roots with a file scheme
func NewWatcher(store *Store, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ch := make(chan string, 64)
	w := &Watcher{
		Evicted:  ch,
		store:    store,
		debounce: debounce,
		evicted:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}
	for _, root := range store.PackageRoots() {
		if location, ok := localPath(root); ok {
			w.roots = append(w.roots, location)
		}
	}
	return w, nil
}

// Roots returns watched local directories
func (w *Watcher) Roots() []string {
	return w.roots
}

// Start begins watching package roots
func (w *Watcher) Start() error {
	for _, root := range w.roots {
		if err := w.addTree(root); err != nil {
			return err
		}
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Evicted channel
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		_ = w.watcher.Close()
		<-w.done
		close(w.evicted)
	})
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(location string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && location == root {
				return nil
			}
			return err
		}
		if entry.IsDir() {
			return w.watcher.Add(location)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	defer close(w.done)
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for location := range pending {
					w.process(location)
				}
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err = w.addTree(event.Name); err != nil {
						w.store.logger.Printf("failed to watch %v: %v", event.Name, err)
					}
					continue
				}
			}
			if !strings.HasSuffix(event.Name, w.store.Suffix()) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}

		case now := <-ticker.C:
			for location, at := range pending {
				if now.Sub(at) >= w.debounce {
					w.process(location)
					delete(pending, location)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.store.logger.Printf("context watch error: %v", err)
		}
	}
}

// process evicts the cached unit of a changed file unless its content digest is unchanged
func (w *Watcher) process(location string) {
	name, ok := w.className(location)
	if !ok {
		return
	}
	unit, ok := w.store.cached(name)
	if !ok {
		w.store.Evict(name) // drops a read still in flight
		return
	}
	if data, err := os.ReadFile(location); err == nil && Digest(data) == unit.Digest() {
		return
	}
	if !w.store.Evict(name) {
		return
	}
	select {
	case w.evicted <- name:
	default:
		w.store.logger.Printf("dropped eviction notice for %v", name)
	}
}

func (w *Watcher) className(location string) (string, bool) {
	for _, root := range w.roots {
		relative, err := filepath.Rel(root, location)
		if err != nil || strings.HasPrefix(relative, "..") {
			continue
		}
		relative = strings.TrimSuffix(filepath.ToSlash(relative), w.store.Suffix())
		return strings.ReplaceAll(relative, "/", "."), true
	}
	return "", false
}

// localPath returns the file system path of a file scheme URL
func localPath(URL string) (string, bool) {
	if url.Scheme(URL, file.Scheme) != file.Scheme {
		return "", false
	}
	prefix := file.Scheme + "://"
	if !strings.HasPrefix(URL, prefix) {
		location, err := filepath.Abs(URL)
		return location, err == nil
	}
	location := strings.TrimPrefix(strings.TrimPrefix(URL, prefix), "localhost")
	return filepath.Clean("/" + strings.TrimPrefix(location, "/")), true
}
