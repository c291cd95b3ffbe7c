package library

import "strings"

// FolderLabeler extracts a folder label from a track URI. The grouping
// semantics of device folders are ambiguous (root folder vs. nested
// subfolder), so the strategy is pluggable.
type FolderLabeler interface {
	Label(uri string) string
}

// UnknownFolder is the label used when no folder can be extracted.
const UnknownFolder = "Unknown"

// KnownFoldersLabeler labels tracks by matching path segments against a
// list of well-known music folder names (case-insensitive substring
// match), falling back to the URI's parent directory name.
type KnownFoldersLabeler struct {
	names []string
}

// NewKnownFoldersLabeler creates a labeler for the given folder names.
// With no names, the default set of common device folders is used.
func NewKnownFoldersLabeler(names ...string) *KnownFoldersLabeler {
	if len(names) == 0 {
		names = []string{"Music", "Download", "Downloads", "Movies", "Audio"}
	}
	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}
	return &KnownFoldersLabeler{names: lowered}
}

// Label returns the folder label for uri.
func (l *KnownFoldersLabeler) Label(uri string) string {
	parts := strings.Split(uri, "/")

	for _, part := range parts {
		lower := strings.ToLower(part)
		for _, name := range l.names {
			if strings.Contains(lower, name) {
				return part
			}
		}
	}

	// Fall back to the parent directory name.
	if len(parts) >= 2 && parts[len(parts)-2] != "" {
		return parts[len(parts)-2]
	}
	return UnknownFolder
}

// ParentFolderLabeler labels tracks by their parent directory name only,
// ignoring well-known folder matching.
type ParentFolderLabeler struct{}

// Label returns the parent directory name of uri.
func (ParentFolderLabeler) Label(uri string) string {
	parts := strings.Split(uri, "/")
	if len(parts) >= 2 && parts[len(parts)-2] != "" {
		return parts[len(parts)-2]
	}
	return UnknownFolder
}
