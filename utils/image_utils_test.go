package utils

import "testing"

func TestImageURL(t *testing.T) {
	cases := []struct {
		name   string
		origin string
		ref    string
		want   string
	}{
		{"empty uses placeholder", "http://api.test", "", PlaceholderImage},
		{"blank uses placeholder", "http://api.test", "   ", PlaceholderImage},
		{"absolute https kept", "http://api.test", "https://cdn.test/a.png", "https://cdn.test/a.png"},
		{"absolute http kept", "http://api.test", "http://cdn.test/a.png", "http://cdn.test/a.png"},
		{"relative with slash", "http://api.test", "/uploads/a.png", "http://api.test/uploads/a.png"},
		{"relative without slash", "http://api.test", "uploads/a.png", "http://api.test/uploads/a.png"},
		{"origin trailing slash", "http://api.test/", "/uploads/a.png", "http://api.test/uploads/a.png"},
		{"doubled slashes collapse", "http://api.test//", "//uploads/a.png", "http://api.test/uploads/a.png"},
		{"http-prefixed filename is relative", "http://api.test", "httpimage.png", "http://api.test/httpimage.png"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ImageURL(tc.origin, tc.ref); got != tc.want {
				t.Errorf("ImageURL(%q, %q) = %q, want %q", tc.origin, tc.ref, got, tc.want)
			}
		})
	}
}
