package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LJTian/MarketPulse/internal/queue"
	"github.com/LJTian/MarketPulse/internal/storage"
)

const readyProbeTimeout = 3 * time.Second

type Server struct {
	store *storage.Store
	queue *queue.Queue
}

func NewServer(store *storage.Store, q *queue.Queue) *Server {
	return &Server{store: store, queue: q}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/ready", s.ready)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/events", s.listEvents)
		v1.GET("/breaking", s.listBreaking)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ready 汇报存储与队列的连通性；任一不可达则返回 503
func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyProbeTimeout)
	defer cancel()

	checks := gin.H{"database": "ok", "queue": "ok"}
	status := http.StatusOK

	if err := s.store.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := s.queue.Ping(ctx); err != nil {
		checks["queue"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, checks)
}

func (s *Server) listEvents(c *gin.Context) {
	category := c.Query("category")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	items, err := s.store.ListEvents(category, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    items,
	})
}

func (s *Server) listBreaking(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	items, err := s.store.ListBreaking(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    items,
	})
}
