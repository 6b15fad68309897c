package util

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-iconsharp/images"
)

// ImageFile represents a candidate image file found in a directory.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Name is the base name of the file.
	Name string
	// Format is the format implied by the file extension.
	Format images.ImageFormat
	// Size is the file size in bytes.
	Size int64
}

// ListImageFiles lists the regular files directly inside dir whose extension
// maps to a supported image format. Symbolic links are followed. Subdirectories are not descended into.
//
// Arguments:
// - dir: Directory path containing image files.
// - exclude: Base names that are skipped even if their extension matches.
//
// Returns:
// - []ImageFile: The matching files, sorted by name.
// - error: Error if the directory cannot be read.
func ListImageFiles(dir string, exclude []string) ([]ImageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read directory %s", dir)
	}

	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	var files []ImageFile
	for _, entry := range entries {
		if skip[entry.Name()] {
			continue
		}

		format, ok := images.FormatForPath(entry.Name())
		if !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		info, err := fileInfo(path, entry)
		if err != nil || !info.Mode().IsRegular() {
			// Not a regular file once links are resolved, or already gone.
			continue
		}

		files = append(files, ImageFile{
			Path:   path,
			Name:   entry.Name(),
			Format: format,
			Size:   info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// fileInfo stats entry, resolving symbolic links to their target.
func fileInfo(path string, entry os.DirEntry) (os.FileInfo, error) {
	if entry.Type()&os.ModeSymlink != 0 {
		return os.Stat(path)
	}
	return entry.Info()
}
