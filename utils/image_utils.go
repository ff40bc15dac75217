package utils

import (
	"net/url"
	"strings"
)

// PlaceholderImage is shown when a line has no image or its image fails to load.
const PlaceholderImage = "/placeholder.png"

// ImageURL turns a stored image reference into something a client can load: empty
// references become the placeholder, absolute http(s) URLs pass through, and site-relative
// paths are joined to origin with exactly one slash between them.
func ImageURL(origin, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return PlaceholderImage
	}
	if isAbsoluteURL(ref) {
		return ref
	}
	return strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(ref, "/")
}

func isAbsoluteURL(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ImageFallback is what a client swaps in after an image fails to load.
func ImageFallback() string {
	return PlaceholderImage
}
