// Package web embeds the site's templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var files embed.FS

// Templates returns the embedded template tree rooted at web/templates.
func Templates() fs.FS {
	return sub("templates")
}

// Static returns the embedded asset tree rooted at web/static.
func Static() fs.FS {
	return sub("static")
}

func sub(dir string) fs.FS {
	fsys, err := fs.Sub(files, dir)
	if err != nil {
		panic("failed to create embedded " + dir + " filesystem: " + err.Error())
	}
	return fsys
}
