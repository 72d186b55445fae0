package service

import (
	"path"
	"path/filepath"
	"strings"
)

// DefaultUploadURLPath is where uploads are served when no other path is
// configured. It stays mounted next to a custom path so gallery entries
// stored under it keep resolving.
const DefaultUploadURLPath = "/uploads"

// UploadLocation maps stored upload files to the URLs they are served at.
type UploadLocation struct {
	Dir     string
	URLPath string
}

// URLFor returns the public URL of an upload file name.
func (l UploadLocation) URLFor(name string) string {
	return path.Join(l.prefix(), name)
}

// URLPaths lists every URL prefix the upload directory is served under,
// the configured one first.
func (l UploadLocation) URLPaths() []string {
	p := l.prefix()
	if p == DefaultUploadURLPath {
		return []string{p}
	}
	return []string{p, DefaultUploadURLPath}
}

// FileName returns the upload file an URL points at, accepting any of
// URLPaths. URLs that would escape the directory are rejected.
func (l UploadLocation) FileName(url string) (string, bool) {
	for _, prefix := range l.URLPaths() {
		name, found := strings.CutPrefix(url, prefix+"/")
		if !found {
			continue
		}
		if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			return "", false
		}
		return name, true
	}
	return "", false
}

// PathFor resolves an upload URL to its file on disk.
func (l UploadLocation) PathFor(url string) (string, bool) {
	name, ok := l.FileName(url)
	if !ok {
		return "", false
	}
	return filepath.Join(l.Dir, name), true
}

func (l UploadLocation) prefix() string {
	p := "/" + strings.Trim(l.URLPath, "/")
	if p == "/" {
		return DefaultUploadURLPath
	}
	return p
}
