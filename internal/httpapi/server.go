package httpapi

import (
	"encoding/json"
	"github.com/BarushevEA/fifo_ttl_cache/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"net/http"
	"time"
)

// RequestIDHeader carries the request identifier assigned by the server or supplied by the caller.
const RequestIDHeader = "X-Request-ID"

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PutRequest is the body of PUT /cache/:key.
type PutRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

// Entry is a single cache entry as returned by the API.
type Entry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Stats describes the current cache occupancy.
type Stats struct {
	Len     int    `json:"len"`
	Sweeper string `json:"sweeper"`
	Uptime  string `json:"uptime"`
}

// NewRouter exposes cache over HTTP.
//
//	GET    /health
//	GET    /stats
//	GET    /keys
//	GET    /values
//	GET    /cache/:key
//	GET    /cache/:key/exists
//	PUT    /cache/:key
//	DELETE /cache/:key
func NewRouter(cache types.ICacheInMemory[string, json.RawMessage], logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	started := time.Now()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(accessLog(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, Response{Success: true, Data: map[string]string{"status": "healthy"}})
	})
	r.GET("/stats", handleStats(cache, started))
	r.GET("/keys", handleKeys(cache))
	r.GET("/values", handleValues(cache))

	entries := r.Group("/cache")
	{
		entries.GET("/:key", handleGet(cache))
		entries.GET("/:key/exists", handleExists(cache))
		entries.PUT("/:key", handlePut(cache))
		entries.DELETE("/:key", handleRemove(cache))
	}

	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("request_id", c.GetString(RequestIDHeader)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func handleStats(cache types.ICacheInMemory[string, json.RawMessage], started time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, Response{Success: true, Data: Stats{
			Len:     cache.Len(),
			Sweeper: cache.SweeperState().String(),
			Uptime:  time.Since(started).Truncate(time.Millisecond).String(),
		}})
	}
}

func handleKeys(cache types.ICacheInMemory[string, json.RawMessage]) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, Response{Success: true, Data: cache.Keys()})
	}
}

func handleValues(cache types.ICacheInMemory[string, json.RawMessage]) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, Response{Success: true, Data: cache.Values()})
	}
}

func handleGet(cache types.ICacheInMemory[string, json.RawMessage]) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")
		value, ok := cache.Get(key)
		if !ok {
			c.JSON(http.StatusNotFound, Response{Error: "key not found"})
			return
		}
		c.JSON(http.StatusOK, Response{Success: true, Data: Entry{Key: key, Value: value}})
	}
}

func handleExists(cache types.ICacheInMemory[string, json.RawMessage]) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, Response{Success: true, Data: map[string]bool{"exists": cache.Exists(c.Param("key"))}})
	}
}

func handlePut(cache types.ICacheInMemory[string, json.RawMessage]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, Response{Error: "invalid request format: " + err.Error()})
			return
		}

		key := c.Param("key")
		previous, replaced := cache.Put(key, req.Value)

		status := http.StatusCreated
		data := Entry{Key: key}
		if replaced {
			status = http.StatusOK
			data.Value = previous
		}
		c.JSON(status, Response{Success: true, Data: data})
	}
}

func handleRemove(cache types.ICacheInMemory[string, json.RawMessage]) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")
		value, ok := cache.Remove(key)
		if !ok {
			c.JSON(http.StatusNotFound, Response{Error: "key not found"})
			return
		}
		c.JSON(http.StatusOK, Response{Success: true, Data: Entry{Key: key, Value: value}})
	}
}
