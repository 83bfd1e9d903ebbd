package proxy

import (
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// RuleHandler is a single dispatch rule: a path prefix matcher plus the
// handler that serves requests matched by it.
type RuleHandler interface {
	Matcher() string
	Match(url *url.URL) bool
	Handler() http.Handler
}

// RedirectRule forwards matched requests to an upstream HTTP server. The
// matched prefix is replaced by ForwardLocation's path, and the client's Host
// header is passed through to the upstream unmodified.
type RedirectRule struct {
	PathPrefix      string
	ForwardLocation *url.URL
}

func (r *RedirectRule) Matcher() string {
	return r.PathPrefix
}

func (r *RedirectRule) Match(url *url.URL) bool {
	return strings.HasPrefix(url.Path, r.PathPrefix)
}

func (r *RedirectRule) Handler() http.Handler {
	target := r.ForwardLocation

	return &httputil.ReverseProxy{
		Director: func(req *http.Request) {
			req.URL.Scheme = target.Scheme
			req.URL.Host = target.Host
			req.URL.Path = rewritePath(req.URL.Path, r.PathPrefix, target.Path)
			// req.Host is deliberately left alone so the upstream sees the
			// Host header the client sent.
		},
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
		},
		ErrorHandler: func(rw http.ResponseWriter, req *http.Request, err error) {
			log.Error().Err(err).Str("upstream", target.Host).Str("path", req.URL.Path).
				Msg("upstream request failed")
			http.Error(rw, "bad gateway", http.StatusBadGateway)
		},
	}
}

// rewritePath replaces the matched prefix with the upstream path prefix,
// keeping exactly one slash at the join.
func rewritePath(reqPath, matched, upstreamPrefix string) string {
	rest := strings.TrimPrefix(reqPath, matched)
	if upstreamPrefix == "" {
		upstreamPrefix = "/"
	}
	if strings.HasSuffix(upstreamPrefix, "/") || strings.HasPrefix(rest, "/") {
		return upstreamPrefix + strings.TrimPrefix(rest, "/")
	}
	return upstreamPrefix + "/" + rest
}

// FileServerRule serves matched requests from a local directory.
//
// With Alias set, the matched prefix is stripped and the remainder resolved
// under Dir (nginx "alias"). Without it, the full request path is resolved
// under Dir (nginx "root"). Lookup order: exact file, then the directory's
// fallback document, then the rule-level fallback at the top of Dir.
type FileServerRule struct {
	PathPrefix string
	Dir        string
	Alias      bool
	Fallback   string
}

func (r *FileServerRule) Matcher() string {
	return r.PathPrefix
}

func (r *FileServerRule) Match(url *url.URL) bool {
	return strings.HasPrefix(url.Path, r.PathPrefix)
}

func (r *FileServerRule) Handler() http.Handler {
	return http.HandlerFunc(r.serve)
}

func (r *FileServerRule) serve(w http.ResponseWriter, req *http.Request) {
	fsPath, ok := r.resolve(req.URL.Path)
	if !ok {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	if info, err := os.Stat(fsPath); err == nil && !info.IsDir() {
		http.ServeFile(w, req, fsPath)
		return
	} else if err == nil && info.IsDir() && r.Fallback != "" {
		index := filepath.Join(fsPath, r.Fallback)
		if stat, err := os.Stat(index); err == nil && !stat.IsDir() {
			http.ServeFile(w, req, index)
			return
		}
	}

	if r.Fallback != "" {
		fallback := filepath.Join(r.Dir, r.Fallback)
		if stat, err := os.Stat(fallback); err == nil && !stat.IsDir() {
			http.ServeFile(w, req, fallback)
			return
		}
	}

	http.NotFound(w, req)
}

// resolve maps a request path onto the filesystem and reports whether the
// result stays inside the rule's directory.
func (r *FileServerRule) resolve(reqPath string) (string, bool) {
	rel := reqPath
	if r.Alias {
		rel = strings.TrimPrefix(reqPath, r.PathPrefix)
	}
	fsPath := filepath.Join(r.Dir, filepath.FromSlash(path.Clean("/"+rel)))

	base := filepath.Clean(r.Dir)
	if fsPath != base && !strings.HasPrefix(fsPath, base+string(filepath.Separator)) {
		return "", false
	}
	return fsPath, true
}
