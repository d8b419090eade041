package archive

import (
	"path"
	"strings"
)

// Mapper decides where an archive entry goes. It receives the slash separated
// entry name and returns the path relative to the destination, or false to
// skip the entry.
type Mapper func(name string) (string, bool)

// StripPrefix keeps the entries below prefix and removes prefix from their
// names. The prefix directory itself and everything outside it are skipped.
// An empty prefix keeps every entry unchanged.
func StripPrefix(prefix string) Mapper {
	prefix = normalizeName(prefix)

	return func(name string) (string, bool) {
		if prefix == "" {
			return name, name != ""
		}

		rest, found := strings.CutPrefix(name, prefix+"/")
		if !found || rest == "" {
			return "", false
		}

		return rest, true
	}
}

// Member keeps the single entry whose base name is member and writes it to target.
func Member(member, target string) Mapper {
	return func(name string) (string, bool) {
		if path.Base(name) != member {
			return "", false
		}

		return target, true
	}
}

// normalizeName converts Windows separators and removes leading "./" and "/".
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimLeft(name, "/")

	if name == "" {
		return ""
	}

	name = path.Clean(name)
	if name == "." {
		return ""
	}

	return name
}
