package generate

// File is one generated artifact. Path is slash-separated and relative to the
// sync destination; Contents is the complete file text.
type File struct {
	Path     string
	Contents []byte
}

// Paths returns the relative paths of a file set in emission order.
func Paths(files []File) []string {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	return paths
}
