package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const maxBaseLen = 80

// ObjectName builds the stored name for an upload:
// <sanitized base>-<UTC YYYYmmddHHMMSS><microseconds>.<ext>
func ObjectName(original string, now time.Time) string {
	now = now.UTC()
	stamp := now.Format("20060102150405") + fmt.Sprintf("%06d", now.Nanosecond()/1000)
	name := SanitizeName(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))) + "-" + stamp
	if ext := Extension(original); ext != "" {
		name += "." + ext
	}
	return name
}

// SanitizeName keeps [A-Za-z0-9._-], maps everything else to '_' and strips
// leading dots and underscores.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '.' || r == '_' {
			return r
		}
		return '_'
	}, name)
	name = strings.TrimLeft(name, "._")
	if len(name) > maxBaseLen {
		name = name[:maxBaseLen]
	}
	if name == "" {
		return "file"
	}
	return name
}

// withSuffix turns "a-1.png" into "a-1-2.png" for n=2.
func withSuffix(key string, n int) string {
	ext := filepath.Ext(key)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(key, ext), n, ext)
}
