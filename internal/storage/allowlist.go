package storage

import (
	"path/filepath"
	"strings"
)

// Allowlist is an ordered set of accepted file extensions, without dots.
type Allowlist struct {
	exts []string
	set  map[string]struct{}
}

func NewAllowlist(exts ...string) Allowlist {
	a := Allowlist{set: make(map[string]struct{}, len(exts))}
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(e, "."))
		if _, dup := a.set[e]; dup {
			continue
		}
		a.exts = append(a.exts, e)
		a.set[e] = struct{}{}
	}
	return a
}

var (
	ImageExtensions      = NewAllowlist("png", "jpg", "jpeg", "gif", "webp")
	AttachmentExtensions = NewAllowlist("png", "jpg", "jpeg", "gif", "webp", "pdf", "txt", "doc", "docx", "xls", "xlsx", "zip")
)

// Allows reports whether filename carries an accepted extension.
// The comparison is case-insensitive.
func (a Allowlist) Allows(filename string) bool {
	_, ok := a.set[Extension(filename)]
	return ok
}

// String renders the list the way the admin pages show it: "png, jpg, ...".
func (a Allowlist) String() string {
	return strings.Join(a.exts, ", ")
}

// Extension returns the lower-cased extension without the dot.
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
