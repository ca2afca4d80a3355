package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check reports whether one dependency is usable. Optional dependencies
// that are not configured should not be registered.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// RegisterSystem mounts the banner, liveness and readiness routes.
func RegisterSystem(r gin.IRoutes, started time.Time, checks ...Check) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "DDMP Server is Running")
	})

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		ready := true
		deps := map[string]bool{}
		for _, chk := range checks {
			ok := chk.Ping(ctx) == nil
			deps[chk.Name] = ok
			ready = ready && ok
		}
		status, label := http.StatusOK, "ready"
		if !ready {
			status, label = http.StatusServiceUnavailable, "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(started).String()})
	})
}
