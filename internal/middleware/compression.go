package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Compression gzips responses for clients that accept it. Plans and their
// shopping lists compress well; probes and the Prometheus scrape endpoint
// are listed in excludedPaths so they stay cheap.
func Compression(excludedPaths ...string) gin.HandlerFunc {
	opts := []gzip.Option{gzip.WithExcludedExtensions([]string{".png", ".gif", ".jpeg", ".jpg"})}
	if len(excludedPaths) > 0 {
		opts = append(opts, gzip.WithExcludedPaths(excludedPaths))
	}
	return gzip.Gzip(gzip.BestSpeed, opts...)
}
