// Package refname classifies requested item references before any I/O
// happens. Classification is the first trust-boundary check: everything the
// caller hands us goes through Classify before the catalog client or the
// workspace guard ever see it.
package refname

import (
	"net/url"
	"regexp"
	"strings"

	forgeuierrors "github.com/forgeui/forgeui/pkg/errors"
)

// Kind is the classification of a requested reference.
type Kind int

const (
	// KindCatalogName is a bare item name resolved against the catalog base.
	KindCatalogName Kind = iota
	// KindURL is an absolute http/https URL fetched directly.
	KindURL
	// KindLocalFile is a manifest on disk, read through the workspace guard.
	KindLocalFile
)

// String returns a stable label for logging.
func (k Kind) String() string {
	switch k {
	case KindURL:
		return "url"
	case KindLocalFile:
		return "local-file"
	default:
		return "catalog-name"
	}
}

var (
	namePattern = regexp.MustCompile(`^[A-Za-z0-9@][A-Za-z0-9/_.@-]*$`)

	localFileExtensions = []string{".json", ".yaml", ".yml"}
)

// Classify determines whether ref is a URL, a local manifest path, or a bare
// catalog name. Bare names must pass a strict character-class check; traversal
// sequences, doubled slashes, and leading dots are rejected outright.
func Classify(ref string) (Kind, error) {
	if ref == "" {
		return KindCatalogName, forgeuierrors.NewInvalidReference(ref, "empty reference")
	}
	if strings.ContainsRune(ref, 0) {
		return KindCatalogName, forgeuierrors.NewInvalidReference(ref, "contains null byte")
	}

	if isURL(ref) {
		return KindURL, nil
	}

	if hasLocalFileExtension(ref) {
		if strings.Contains(ref, "\\") {
			return KindLocalFile, forgeuierrors.NewInvalidReference(ref, "backslash in path")
		}
		return KindLocalFile, nil
	}

	if strings.Contains(ref, "..") {
		return KindCatalogName, forgeuierrors.NewInvalidReference(ref, "traversal sequence")
	}
	if strings.Contains(ref, "//") {
		return KindCatalogName, forgeuierrors.NewInvalidReference(ref, "doubled slash")
	}
	if strings.HasPrefix(ref, ".") {
		return KindCatalogName, forgeuierrors.NewInvalidReference(ref, "leading dot")
	}
	if !namePattern.MatchString(ref) {
		return KindCatalogName, forgeuierrors.NewInvalidReference(ref, "disallowed characters in catalog name")
	}

	return KindCatalogName, nil
}

func isURL(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	if !u.IsAbs() || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func hasLocalFileExtension(ref string) bool {
	lower := strings.ToLower(ref)
	for _, ext := range localFileExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
