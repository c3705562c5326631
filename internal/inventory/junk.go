package inventory

import "strings"

// junkNames are operating-system metadata files that never belong to a client.
var junkNames = map[string]struct{}{
	".ds_store":   {},
	"thumbs.db":   {},
	"desktop.ini": {},
	".gitkeep":    {},
}

// IsJunk reports whether name is file-system metadata to be ignored during
// scanning and copying. AppleDouble "._" companions are junk too.
func IsJunk(name string) bool {
	if strings.HasPrefix(name, "._") {
		return true
	}
	_, ok := junkNames[strings.ToLower(name)]
	return ok
}
