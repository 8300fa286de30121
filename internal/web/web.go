// Package web serves the browser shell that talks to the JSON API.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/*
var content embed.FS

// Static returns the embedded shell assets rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Register mounts the shell at / and its assets under /assets.
func Register(r *gin.Engine) {
	assets := Static()
	index, err := fs.ReadFile(assets, "index.html")
	if err != nil {
		panic(err)
	}
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
	r.StaticFS("/assets", http.FS(assets))
}
