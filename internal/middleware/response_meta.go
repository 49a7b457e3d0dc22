package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey    = "response_meta"
	cacheHitKey        = "cache_hit"
	integrityErrorsKey = "integrity_errors"
	processingTimeKey  = "processing_time_ms"
)

// WithResponseMeta gives each request a meta map that dashboard handlers fill
// and the envelope echoes back. Processing time is stamped after the handler
// unless the handler measured it itself.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Next()
		meta := ensureMeta(c)
		if _, exists := meta[processingTimeKey]; !exists {
			meta[processingTimeKey] = time.Since(start).Milliseconds()
		}
	}
}

// SetCacheHit marks whether the occupancy grid was served from Redis.
func SetCacheHit(c *gin.Context, hit bool) {
	SetMeta(c, cacheHitKey, hit)
}

// SetIntegrityErrors attaches merge-cycle reports. Nothing is recorded for an
// empty list so clean responses keep a quiet meta block.
func SetIntegrityErrors[T any](c *gin.Context, errs []T) {
	if len(errs) == 0 {
		return
	}
	SetMeta(c, integrityErrorsKey, errs)
}

// SetMeta stores a response metadata entry.
func SetMeta(c *gin.Context, key string, value interface{}) {
	ensureMeta(c)[key] = value
}

// ExtractMeta returns the metadata map stored on the context, or nil when
// WithResponseMeta did not run.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	return nil
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return map[string]interface{}{}
	}
	if meta := ExtractMeta(c); meta != nil {
		return meta
	}
	meta := make(map[string]interface{})
	c.Set(responseMetaKey, meta)
	return meta
}
