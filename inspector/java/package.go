package java

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// Scan defines every class found under the loader's local source roots and returns them sorted by name.
// Files that fail to load are logged and skipped.
func (l *Loader) Scan(ctx context.Context) ([]*Class, error) {
	var names []string
	for _, root := range l.roots {
		rootPath, ok := localPath(root)
		if !ok {
			continue
		}
		err := filepath.WalkDir(rootPath, func(aPath string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), l.suffix) {
				return nil
			}
			relative, err := filepath.Rel(rootPath, aPath)
			if err != nil {
				return err
			}
			relative = strings.TrimSuffix(filepath.ToSlash(relative), l.suffix)
			names = append(names, strings.ReplaceAll(relative, "/", "."))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking source root %s: %w", root, err)
		}
	}

	var classes []*Class
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		if class, ok := l.lookup(ctx, name); ok {
			classes = append(classes, class)
		}
	}
	sort.Slice(classes, func(i, j int) bool {
		return classes[i].Name() < classes[j].Name()
	})
	return classes, nil
}

func localPath(URL string) (string, bool) {
	if url.Scheme(URL, file.Scheme) != file.Scheme {
		return "", false
	}
	prefix := file.Scheme + "://"
	if !strings.HasPrefix(URL, prefix) {
		return URL, true
	}
	location := strings.TrimPrefix(strings.TrimPrefix(URL, prefix), "localhost")
	return "/" + strings.TrimPrefix(location, "/"), true
}
