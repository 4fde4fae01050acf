package handlers

import (
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// Static serves the client bundle from files. Anything that is not a file
// in the bundle gets the JSON 404.
func Static(files fs.FS) gin.HandlerFunc {
	var fileServer http.Handler
	if files != nil {
		fileServer = http.FileServer(http.FS(files))
	}

	return func(c *gin.Context) {
		method := c.Request.Method
		if fileServer != nil && (method == http.MethodGet || method == http.MethodHead) && bundled(files, c.Request.URL.Path) {
			fileServer.ServeHTTP(c.Writer, c.Request)
			return
		}
		NotFound(c)
	}
}

// NotFound answers an unmatched route.
func NotFound(c *gin.Context) {
	errorJSON(c, http.StatusNotFound, fmt.Sprintf("Route not found: %s %s", c.Request.Method, c.Request.URL.RequestURI()))
}

func bundled(files fs.FS, urlPath string) bool {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = "."
	}
	info, err := fs.Stat(files, name)
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err = fs.Stat(files, path.Join(name, "index.html"))
		return err == nil
	}
	return true
}
