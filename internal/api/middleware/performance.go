package middleware

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
)

// Compression middleware with gzip support
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gz := gzipWriterPool.Get().(*gzip.Writer)
		defer gzipWriterPool.Put(gz)
		gz.Reset(w)
		defer gz.Close()

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length") // Let gzip set the correct length

		gzw := &gzipResponseWriter{
			ResponseWriter: w,
			Writer:         gz,
		}

		next.ServeHTTP(gzw, r)
	})
}

// Pool of gzip writers to reduce allocations
var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		// Compression level 5 is a good balance between speed and compression ratio
		gz, _ := gzip.NewWriterLevel(io.Discard, 5)
		return gz
	},
}

// gzipResponseWriter wraps http.ResponseWriter to compress the response
type gzipResponseWriter struct {
	http.ResponseWriter
	Writer io.Writer
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *gzipResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, fmt.Errorf("ResponseWriter does not support Hijack")
}

// CacheControl middleware adds cache headers based on path patterns
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		switch {
		case strings.HasPrefix(path, "/api/stalls/discover"),
			strings.HasPrefix(path, "/api/stalls/recommended"):
			// Discovery results: cache for 2 minutes
			w.Header().Set("Cache-Control", "public, max-age=120, must-revalidate")
		case strings.HasPrefix(path, "/api/stalls/filters"):
			// Filter options: cache for 5 minutes (changes rarely)
			w.Header().Set("Cache-Control", "public, max-age=300, must-revalidate")
		case strings.HasPrefix(path, "/api/geocode"),
			strings.HasPrefix(path, "/api/reverse-geocode"):
			// Geocoding: cache for 1 hour (addresses don't move)
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		default:
			// Default: no cache for dynamic content
			w.Header().Set("Cache-Control", "private, no-cache, must-revalidate")
		}

		next.ServeHTTP(w, r)
	})
}

// ResponseOptimization combines cache control and compression
func ResponseOptimization(next http.Handler) http.Handler {
	return CacheControl(Compression(next))
}
