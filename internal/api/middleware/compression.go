package middleware

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Content types that are already compressed
var incompressibleTypes = []string{
	"image/",
	"video/",
	"audio/",
	"application/zip",
	"application/gzip",
}

// CompressionConfig holds configuration for the compression middleware
type CompressionConfig struct {
	// MinLength is the smallest body that gets compressed
	MinLength int
	// Level is the gzip level passed to gzip.NewWriterLevel
	Level int
}

// DefaultCompressionConfig returns the default compression configuration
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinLength: 1024,
		Level:     gzip.DefaultCompression,
	}
}

// Compression gzips JSON and text responses for clients that accept it.
// Bodies are buffered until the handler returns.
func Compression(cfg CompressionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		original := c.Writer
		bw := &bufferedWriter{ResponseWriter: original}
		c.Writer = bw
		c.Header("Vary", "Accept-Encoding")

		c.Next()

		c.Writer = original
		body := bw.buf.Bytes()
		if !compressible(original.Header(), original.Status(), len(body), cfg.MinLength) {
			if len(body) > 0 {
				_, _ = original.Write(body)
			}
			return
		}

		gz, err := gzip.NewWriterLevel(original, cfg.Level)
		if err != nil {
			_, _ = original.Write(body)
			return
		}
		original.Header().Set("Content-Encoding", "gzip")
		original.Header().Del("Content-Length")
		_, _ = gz.Write(body)
		_ = gz.Close()
	}
}

func compressible(header http.Header, status, size, minLength int) bool {
	if size < minLength || status == http.StatusNoContent || status == http.StatusNotModified {
		return false
	}
	if header.Get("Content-Encoding") != "" {
		return false
	}
	contentType := header.Get("Content-Type")
	for _, t := range incompressibleTypes {
		if strings.HasPrefix(contentType, t) {
			return false
		}
	}
	return true
}

type bufferedWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	return w.buf.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}

// Flush is a no-op; the body is written once the handler chain returns
func (w *bufferedWriter) Flush() {}
