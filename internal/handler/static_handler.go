package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

const indexDocument = "index.html"

// StaticHandler serves the prebuilt site. Unmatched GET paths outside /api/
// receive index.html so client-side deep links resolve.
type StaticHandler struct {
	files      fs.FS
	fileServer http.Handler
}

// NewStaticHandler serves files from fsys, which must contain index.html at its root.
func NewStaticHandler(fsys fs.FS) (*StaticHandler, error) {
	if _, err := fs.Stat(fsys, indexDocument); err != nil {
		return nil, errors.New("static root has no " + indexDocument)
	}
	return &StaticHandler{
		files:      fsys,
		fileServer: http.FileServerFS(fsys),
	}, nil
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	if isAPIPath(r.URL.Path) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name != "" {
		if info, err := fs.Stat(h.files, name); err == nil && !info.IsDir() {
			h.fileServer.ServeHTTP(w, r)
			return
		}
	}
	http.ServeFileFS(w, r, h.files, indexDocument)
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}
