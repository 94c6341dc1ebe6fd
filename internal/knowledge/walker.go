package knowledge

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// FileInfo describes one discovered knowledge document.
type FileInfo struct {
	Path      string // relative to the data dir, forward slashes
	AbsPath   string
	Hash      string
	SizeBytes int64
	MtimeUnix int64
}

// ingestExtensions lists the document types the tutor ingests. PDFs and
// the like are expected to be pre-converted to text before landing in the
// data dir.
var ingestExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
}

// defaultIgnores are always skipped regardless of the ignore file.
var defaultIgnores = []string{
	".git",
	".tutord",
	"node_modules",
	"__pycache__",
}

// ignoreFileName is an optional gitignore-style file in the data dir root
// for excluding documents from ingestion.
const ignoreFileName = ".tutorignore"

// WalkDataDir discovers ingestable documents under dir. Results are in
// lexical walk order. A missing dir is an error; an empty one is not.
func WalkDataDir(dir string) ([]FileInfo, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}
	if info, err := os.Stat(absDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("data dir is not a valid directory: %s", absDir)
	}

	matcher := loadIgnoreMatcher(absDir)

	var files []FileInfo
	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(absDir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if isIgnoredDir(d.Name()) {
				return filepath.SkipDir
			}
			if matcher != nil && matcher.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !ingestExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", rel, readErr)
		}
		info, statErr := d.Info()
		if statErr != nil {
			return statErr
		}

		files = append(files, FileInfo{
			Path:      rel,
			AbsPath:   path,
			Hash:      hashText(data),
			SizeBytes: info.Size(),
			MtimeUnix: info.ModTime().Unix(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// loadIgnoreMatcher compiles .tutorignore if present. A malformed or
// missing file just means no extra ignores.
func loadIgnoreMatcher(dir string) *gitignore.GitIgnore {
	path := filepath.Join(dir, ignoreFileName)
	matcher, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return matcher
}

// IsIngestable reports whether a path has a recognized document extension.
// The watcher uses this to filter event noise.
func IsIngestable(path string) bool {
	return ingestExtensions[strings.ToLower(filepath.Ext(path))]
}

func isIgnoredDir(name string) bool {
	for _, ig := range defaultIgnores {
		if name == ig {
			return true
		}
	}
	return false
}
