package docs

import (
	"context"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/viant/afs/url"
)

// Preview returns a unified diff between the stored context of a class and the one Update would write.
// An empty result means the context is unchanged.
func (s *Store) Preview(ctx context.Context, qualifiedName string, src Source) (string, error) {
	_, _, data, err := s.render(ctx, qualifiedName, src)
	if err != nil {
		return "", err
	}
	location := s.ContextPath(qualifiedName)
	var current []byte
	if len(s.roots) > 0 {
		URL := url.Join(s.roots[0], location)
		if ok, _ := s.fs.Exists(ctx, URL); ok {
			if current, err = s.fs.DownloadWithURL(ctx, URL); err != nil {
				return "", fmt.Errorf("failed to read context %v: %w", URL, err)
			}
		}
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(string(data)),
		FromFile: "a/" + location,
		ToFile:   "b/" + location,
		Context:  2,
	})
	if err != nil {
		return "", fmt.Errorf("failed to diff context for %v: %w", qualifiedName, err)
	}
	return diff, nil
}
