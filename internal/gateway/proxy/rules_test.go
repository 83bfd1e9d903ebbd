package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewritePath(t *testing.T) {
	cases := []struct {
		path     string
		matched  string
		upstream string
		want     string
	}{
		{"/api/recipes/", "/api/", "/api/", "/api/recipes/"},
		{"/admin/users", "/admin/", "/admin/", "/admin/users"},
		{"/s/abc", "/s/", "/s/", "/s/abc"},
		{"/api/recipes/", "/api/", "/v2/", "/v2/recipes/"},
		{"/api/recipes", "/api/", "/v2", "/v2/recipes"},
		{"/api/", "/api/", "/", "/"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, rewritePath(tc.path, tc.matched, tc.upstream), "path %s", tc.path)
	}
}

func TestFileServerResolveAlias(t *testing.T) {
	rule := &FileServerRule{
		PathPrefix: "/media/",
		Dir:        "/var/www/foodgram/media/",
		Alias:      true,
	}

	got, ok := rule.resolve("/media/foo.jpg")
	assert.True(t, ok)
	assert.Equal(t, "/var/www/foodgram/media/foo.jpg", got)

	got, ok = rule.resolve("/media/avatars/1.png")
	assert.True(t, ok)
	assert.Equal(t, "/var/www/foodgram/media/avatars/1.png", got)
}

func TestFileServerResolveRoot(t *testing.T) {
	rule := &FileServerRule{
		PathPrefix: "/api/docs/",
		Dir:        "/usr/share/nginx/html",
	}

	got, ok := rule.resolve("/api/docs/redoc.html")
	assert.True(t, ok)
	assert.Equal(t, "/usr/share/nginx/html/api/docs/redoc.html", got)
}

func TestFileServerResolveRejectsTraversal(t *testing.T) {
	rule := &FileServerRule{
		PathPrefix: "/media/",
		Dir:        "/var/www/foodgram/media/",
		Alias:      true,
	}

	// path.Clean collapses the dot segments before they can escape Dir
	got, ok := rule.resolve("/media/../../etc/passwd")
	assert.True(t, ok)
	assert.Equal(t, "/var/www/foodgram/media/etc/passwd", got)
}
