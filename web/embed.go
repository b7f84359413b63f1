// Package web embeds the prebuilt marketing site served at the root path.
package web

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed site
var files embed.FS

// Site returns the embedded site rooted at index.html.
func Site() fs.FS {
	sub, err := fs.Sub(files, "site")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory exists
	}
	return sub
}

// Load returns dir as a filesystem when set, otherwise the embedded site.
func Load(dir string) fs.FS {
	if dir == "" {
		return Site()
	}
	return os.DirFS(dir)
}
