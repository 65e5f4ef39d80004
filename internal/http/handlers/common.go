package handlers

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"backoffice/internal/cache"
	intconfig "backoffice/internal/config"
	"backoffice/internal/http/middleware"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

// Options carries what handlers need beyond the shared DB pool.
type Options struct {
	Cache     cache.CreditNoteCache
	CacheTTL  time.Duration
	JWTSecret []byte
	TokenTTL  time.Duration
}

var (
	optsMu sync.RWMutex
	opts   Options
)

// Configure sets the handler options. Call it before serving.
func Configure(o Options) {
	optsMu.Lock()
	defer optsMu.Unlock()
	opts = o
}

func currentOptions() Options {
	optsMu.RLock()
	defer optsMu.RUnlock()
	return opts
}

// deps builds the service dependencies for one request.
func deps(c *gin.Context) services.Deps {
	o := currentOptions()
	return services.Deps{
		DB:        intconfig.DB,
		Cache:     o.Cache,
		CacheTTL:  o.CacheTTL,
		RequestID: middleware.GetRequestID(c),
		Actor:     middleware.GetActor(c),
	}
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload: "+err.Error(), nil)
		return false
	}
	return true
}

// parseID reads a positive path id, answering 400 when it is not one.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", name+" must be a positive integer", nil)
		return 0, false
	}
	return id, true
}
