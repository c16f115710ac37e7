package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expect      *Config
		expectErr   bool
	}{
		{
			description: "defaults kept",
			input:       "sourceRoots: [src]\n",
			expect: &Config{
				LoaderID:      "project",
				SourceRoots:   []string{"src"},
				ContextSuffix: ".ctxt",
				SourceSuffix:  ".java",
				Debounce:      100 * time.Millisecond,
			},
		},
		{
			description: "all keys",
			input: `loaderID: app
project: /work/app
platformRoots: [/jdk/src]
packageRoots: [/work/app/classes]
contextSuffix: .ctx
sourceSuffix: .jav
watch: true
debounce: 250ms
`,
			expect: &Config{
				LoaderID:      "app",
				Project:       "/work/app",
				PlatformRoots: []string{"/jdk/src"},
				PackageRoots:  []string{"/work/app/classes"},
				ContextSuffix: ".ctx",
				SourceSuffix:  ".jav",
				Watch:         true,
				Debounce:      250 * time.Millisecond,
			},
		},
		{description: "no sources", input: "watch: true\n", expectErr: true},
		{description: "empty loader", input: "loaderID: ''\nsourceRoots: [src]\n", expectErr: true},
		{description: "malformed", input: "sourceRoots: [", expectErr: true},
	}

	for _, testCase := range testCases {
		actual, err := Parse([]byte(testCase.input))
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestLoad(t *testing.T) {
	location := filepath.Join(t.TempDir(), "docview.yaml")
	require.NoError(t, os.WriteFile(location, []byte("project: /work/app\n"), 0644))
	cfg, err := Load(context.Background(), location)
	require.NoError(t, err)
	assert.Equal(t, "/work/app", cfg.Project)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
