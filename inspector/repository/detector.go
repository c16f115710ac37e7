package repository

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/viant/afs"
)

// Project types
const (
	TypeMaven   = "maven"
	TypeGradle  = "gradle"
	TypeBlueJ   = "bluej"
	TypeUnknown = "unknown"
)

type marker struct {
	file        string
	projectType string
}

// Detector identifies Java project roots and their source and package directories
type Detector struct {
	fs      afs.Service
	markers []marker
}

// New creates a new project detector instance
func New() *Detector {
	return &Detector{
		fs: afs.New(),
		markers: []marker{
			{file: "pom.xml", projectType: TypeMaven},
			{file: "build.gradle", projectType: TypeGradle},
			{file: "build.gradle.kts", projectType: TypeGradle},
			{file: "package.bluej", projectType: TypeBlueJ},
		},
	}
}

// DetectProject identifies the project enclosing path and its layout
func (d *Detector) DetectProject(ctx context.Context, path string) (*Project, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	project := &Project{Type: TypeUnknown, RootPath: startDir}
	if rootPath, projectType := d.findProjectRoot(startDir); rootPath != "" {
		project.RootPath = rootPath
		project.Type = projectType
	}
	project.Name = d.extractProjectName(ctx, project.RootPath, project.Type)
	project.SourceRoots = d.existing(project.RootPath, sourceLayouts[project.Type]...)
	if len(project.SourceRoots) == 0 {
		project.SourceRoots = []string{project.RootPath}
	}
	project.PackageRoots = d.existing(project.RootPath, packageLayouts[project.Type]...)
	if len(project.PackageRoots) == 0 {
		// contexts live next to sources until a build output exists
		project.PackageRoots = []string{project.SourceRoots[0]}
	}
	return project, nil
}

var sourceLayouts = map[string][]string{
	TypeMaven:  {"src/main/java"},
	TypeGradle: {"src/main/java"},
	TypeBlueJ:  {"."},
}

var packageLayouts = map[string][]string{
	TypeMaven:  {"target/classes"},
	TypeGradle: {"build/classes/java/main"},
	TypeBlueJ:  {"."},
}

func (d *Detector) existing(rootPath string, relative ...string) []string {
	var result []string
	for _, candidate := range relative {
		location := filepath.Clean(filepath.Join(rootPath, filepath.FromSlash(candidate)))
		if info, err := os.Stat(location); err == nil && info.IsDir() {
			result = append(result, location)
		}
	}
	return result
}

// findProjectRoot searches up from the current directory for project markers
func (d *Detector) findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, m := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, m.file)); err == nil {
				return dir, m.projectType
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ""
}

// extractProjectName attempts to extract a project name from build files
func (d *Detector) extractProjectName(ctx context.Context, rootPath string, projectType string) string {
	var name string
	switch projectType {
	case TypeMaven:
		name = d.match(ctx, filepath.Join(rootPath, "pom.xml"), artifactIDExpr)
	case TypeGradle:
		name = d.match(ctx, filepath.Join(rootPath, "settings.gradle"), gradleNameExpr)
		if name == "" {
			name = d.match(ctx, filepath.Join(rootPath, "settings.gradle.kts"), gradleNameExpr)
		}
	}
	if name == "" {
		name = filepath.Base(rootPath)
	}
	return name
}

var (
	artifactIDExpr = regexp.MustCompile(`<artifactId>([^<]+)</artifactId>`)
	parentExpr     = regexp.MustCompile(`(?s)<parent>.*?</parent>`)
	gradleNameExpr = regexp.MustCompile(`rootProject\.name\s*=\s*['"]([^'"]+)['"]`)
)

func (d *Detector) match(ctx context.Context, location string, expr *regexp.Regexp) string {
	if ok, _ := d.fs.Exists(ctx, location); !ok {
		return ""
	}
	data, err := d.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return ""
	}
	matches := expr.FindSubmatch(parentExpr.ReplaceAll(data, nil))
	if len(matches) < 2 {
		return ""
	}
	return string(matches[1])
}
