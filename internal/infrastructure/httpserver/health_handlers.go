package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName    = "petpal"
	serviceVersion = "1.0.0"
)

// healthCheck probes every dependency concurrently; any failure reports 503.
func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	var (
		mu   sync.Mutex
		deps = make(map[string]string, len(s.healthCheckers))
		g    errgroup.Group
	)
	for _, hc := range s.healthCheckers {
		if hc == nil {
			continue
		}
		hc := hc
		g.Go(func() error {
			state := "healthy"
			if err := hc.Check(ctx); err != nil {
				state = "unhealthy"
				if s.logger != nil {
					s.logger.WithField("dependency", hc.Name()).WithError(err).Warn("health check failed")
				}
			}
			mu.Lock()
			deps[hc.Name()] = state
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	overall := "healthy"
	for _, state := range deps {
		if state != "healthy" {
			overall = "degraded"
			break
		}
	}
	health := map[string]interface{}{
		"status":       overall,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"version":      serviceVersion,
		"service":      serviceName,
		"dependencies": deps,
	}
	code := http.StatusOK
	if overall != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, health)
}
