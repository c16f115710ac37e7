package repository

// Project represents a detected Java project layout
type Project struct {
	RootPath     string   // Absolute path to the project root directory
	Type         string   // maven, gradle, bluej or unknown
	Name         string   // Name of the project (extracted from build files)
	SourceRoots  []string // Directories holding package-structured .java sources
	PackageRoots []string // Directories holding compiled output and context files
}
