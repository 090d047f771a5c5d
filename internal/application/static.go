package application

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

const staticPrefix = "/static"

// mountStatic serves files from fsys below /static. Directories are never listed.
func mountStatic(engine *gin.Engine, fsys fs.FS) {
	handler := staticHandler(fsys)
	engine.GET(staticPrefix+"/*filepath", handler)
	engine.HEAD(staticPrefix+"/*filepath", handler)
}

func staticHandler(fsys fs.FS) gin.HandlerFunc {
	fileServer := http.FileServer(http.FS(fsys))

	return func(c *gin.Context) {
		name := strings.TrimPrefix(path.Clean(c.Param("filepath")), "/")
		if name == "" || name == "." {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		info, err := fs.Stat(fsys, name)
		if err != nil || info.IsDir() {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		c.Header("Cache-Control", "public, max-age=3600")
		req := c.Request.Clone(c.Request.Context())
		req.URL.Path = "/" + name
		fileServer.ServeHTTP(c.Writer, req)
	}
}
