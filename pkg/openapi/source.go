package openapi

import (
	"path"
	"path/filepath"
	"strings"
)

// Scripts are built from documents on disk or inside an fs.FS (embedded
// fixtures, test maps). Remote documents are not fetched.
type source struct {
	kind     SourceKind
	location string
}

func (s source) Kind() SourceKind { return s.kind }

func (s source) Location() string { return s.location }

// SourceFromFile points at a document on the local file system. The path is
// cleaned with the host separator rules.
func SourceFromFile(p string) Source {
	return source{kind: SourceKindFile, location: filepath.Clean(p)}
}

// SourceFromFS names a document inside the loader's fs.FS. Names use forward
// slashes and are unrooted, as io/fs expects.
func SourceFromFS(name string) Source {
	return source{kind: SourceKindFS, location: strings.TrimPrefix(path.Clean("/"+name), "/")}
}
