package middlewares

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/AliAmzai/Tablr/observability"
	"github.com/AliAmzai/Tablr/utils"
)

const (
	cacheKeyPrefix  = "tablr:cache"
	maxCachedBody   = 1 << 20
	cacheHeader     = "X-Cache"
	cacheWriteLimit = 2 * time.Second
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// captureWriter copies the body while it is written to the client.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if w.buf.Len() < maxCachedBody {
		w.buf.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	if w.buf.Len() < maxCachedBody {
		w.buf.WriteString(s)
	}
	return w.ResponseWriter.WriteString(s)
}

func cacheKey(c *gin.Context) string {
	sum := sha1.Sum([]byte(c.Request.URL.Path + "?" + c.Request.URL.RawQuery))
	return fmt.Sprintf("%s:%x", cacheKeyPrefix, sum[:])
}

// ResponseCache serves GET responses from Redis for ttl. With a nil client it does nothing.
func ResponseCache(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	if rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)
		ctx := c.Request.Context()
		if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
			var cached cachedResponse
			if json.Unmarshal(raw, &cached) == nil {
				observability.ObserveCacheLookup("hit")
				c.Header(cacheHeader, "HIT")
				c.Data(cached.Status, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
		} else if err != redis.Nil {
			utils.ErrorLogger.WithError(err).Warn("Cache read failed")
		}

		observability.ObserveCacheLookup("miss")
		c.Header(cacheHeader, "MISS")
		cw := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Next()

		if cw.Status() != http.StatusOK || cw.buf.Len() >= maxCachedBody {
			return
		}
		payload, err := json.Marshal(cachedResponse{
			Status:      cw.Status(),
			ContentType: cw.Header().Get("Content-Type"),
			Body:        cw.buf.Bytes(),
		})
		if err != nil {
			return
		}
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheWriteLimit)
		defer cancel()
		if err := rdb.Set(writeCtx, key, payload, ttl).Err(); err != nil {
			utils.ErrorLogger.WithError(err).Warn("Cache write failed")
		}
	}
}
