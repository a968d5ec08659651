// Package api exposes the read-only HTTP surface: activity listings,
// per-agent detail, and a health endpoint. Writes go through the queue,
// never through HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agentexec/agentexec/pkg/activity"
	"github.com/agentexec/agentexec/pkg/database"
)

// ActivityReader is the slice of the activity store the API serves.
type ActivityReader interface {
	List(ctx context.Context, opts activity.ListOptions) (*activity.Page, error)
	Detail(ctx context.Context, agentID uuid.UUID, metadata map[string]interface{}) (*activity.Detail, error)
	CountActive(ctx context.Context) (int, error)
}

// HealthChecker reports database reachability. The database client
// satisfies it.
type HealthChecker interface {
	Health(ctx context.Context) (*database.HealthStatus, error)
}

// Server serves the activity API.
type Server struct {
	activities ActivityReader
	health     HealthChecker
	logger     *slog.Logger
}

// NewServer creates the API server.
func NewServer(activities ActivityReader, health HealthChecker) *Server {
	return &Server{
		activities: activities,
		health:     health,
		logger:     slog.With("component", "api"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes attaches the API's routes to an existing engine.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", s.Healthz)
	v1 := r.Group("/api/v1")
	{
		v1.GET("/activities", s.ListActivities)
		v1.GET("/activities/:agent_id", s.GetActivity)
	}
}

// ListActivities handles GET /api/v1/activities. Supports limit, offset
// and metadata.<key>=<value> filters; all metadata filters must match.
func (s *Server) ListActivities(c *gin.Context) {
	opts := activity.ListOptions{Metadata: metadataFilter(c)}

	var err error
	if opts.Limit, err = intQuery(c, "limit", 0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	if opts.Offset, err = intQuery(c, "offset", 0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}

	page, err := s.activities.List(c.Request.Context(), opts)
	if err != nil {
		s.logger.Error("Failed to list activities", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list activities"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetActivity handles GET /api/v1/activities/:agent_id. A metadata
// filter that does not match yields the same 404 as a missing activity.
func (s *Server) GetActivity(c *gin.Context) {
	agentID, err := uuid.Parse(c.Param("agent_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid agent id"})
		return
	}

	detail, err := s.activities.Detail(c.Request.Context(), agentID, metadataFilter(c))
	if err != nil {
		if errors.Is(err, activity.ErrUnknownAgent) {
			c.JSON(http.StatusNotFound, gin.H{"error": "activity not found"})
			return
		}
		s.logger.Error("Failed to load activity", "agent_id", agentID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Healthz handles GET /healthz.
func (s *Server) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbHealth, err := s.health.Health(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": dbHealth,
			"error":    err.Error(),
		})
		return
	}

	active, err := s.activities.CountActive(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": dbHealth,
			"error":    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"database":          dbHealth,
		"active_activities": active,
	})
}

// metadataFilter extracts metadata.<key> query parameters.
func metadataFilter(c *gin.Context) map[string]interface{} {
	var md map[string]interface{}
	for key, values := range c.Request.URL.Query() {
		name, ok := strings.CutPrefix(key, "metadata.")
		if !ok || name == "" || len(values) == 0 {
			continue
		}
		if md == nil {
			md = make(map[string]interface{})
		}
		md[name] = values[0]
	}
	return md
}

func intQuery(c *gin.Context, name string, defaultVal int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(raw)
}
