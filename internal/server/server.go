// Package server exposes the dashboard HTTP API: pipeline state, manual
// stage triggers with captured run logs, and the latest generated batches.
package server

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/autox-agent/internal/config"
	"github.com/autox-agent/internal/models"
	"github.com/autox-agent/internal/pipeline"
	"github.com/autox-agent/internal/storage"
	"github.com/autox-agent/pkg/logger"
	"github.com/autox-agent/pkg/ratelimit"
)

const recentPostsLimit = 5

// Server is the dashboard HTTP server
type Server struct {
	cfg     *config.Config
	store   *storage.Handle
	limiter *ratelimit.MultiLimiter
	log     *logger.Logger
	router  *gin.Engine
}

// New creates the dashboard server and registers its routes.
func New(cfg *config.Config, store *storage.Handle, limiter *ratelimit.MultiLimiter, log *logger.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		store:   store,
		limiter: limiter,
		log:     log.WithComponent("server"),
		router:  gin.New(),
	}
	s.router.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

// Router exposes the gin engine, used in tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server and blocks.
func (s *Server) Run() error {
	addr := ":" + s.cfg.Server.Port
	s.log.Info().Str("addr", addr).Msg("Starting dashboard server")
	return s.router.Run(addr)
}

func (s *Server) registerRoutes() {
	api := s.router.Group("/api")
	api.GET("/state", s.handleState)
	api.GET("/today", s.handleToday)
	api.POST("/steps/:step", s.handleStep)
}

func (s *Server) handleState(c *gin.Context) {
	repo, err := s.store.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	counts, err := repo.Counts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	recent, err := repo.ListPostsByStatus(c.Request.Context(), models.TopicStatusEnhanced)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(recent) > recentPostsLimit {
		recent = recent[:recentPostsLimit]
	}

	c.JSON(http.StatusOK, gin.H{
		"counts": counts,
		"recent": recent,
	})
}

// handleToday returns every batch that reached generation or later, newest
// first, so the operator sees what is ready to post.
func (s *Server) handleToday(c *gin.Context) {
	repo, err := s.store.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var posts []*models.GeneratedPost
	for _, status := range []models.TopicStatus{models.TopicStatusGenerated, models.TopicStatusEnhanced} {
		batch, err := repo.ListPostsByStatus(c.Request.Context(), status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		posts = append(posts, batch...)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// stepRequest is the optional JSON body of a stage trigger. Absent fields
// fall back to the configured defaults.
type stepRequest struct {
	Limits *struct {
		NewsPerFeed *int `json:"newsPerFeed"`
		Trends      *int `json:"trends"`
	} `json:"limits"`
	TopN *int   `json:"topN"`
	Mode string `json:"mode"`
}

// handleStep runs one pipeline stage synchronously and returns its result
// together with the structured log entries the run produced.
func (s *Server) handleStep(c *gin.Context) {
	repo, err := s.store.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req stepRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	runLog, capture := logger.NewWithCapture(logger.Config{
		Level:  s.cfg.Logging.Level,
		Format: s.cfg.Logging.Format,
		Output: s.cfg.Logging.Output,
	})

	ctx := c.Request.Context()
	var result any
	var runErr error

	switch c.Param("step") {
	case "1":
		limits := pipeline.SourceLimits(s.cfg)
		if req.Limits != nil {
			if req.Limits.NewsPerFeed != nil {
				limits.NewsPerFeed = *req.Limits.NewsPerFeed
			}
			if req.Limits.Trends != nil {
				limits.Trends = *req.Limits.Trends
			}
		}
		agent := pipeline.NewCollector(s.cfg, repo, s.limiter, runLog)
		result, runErr = agent.Run(ctx, limits)
	case "2":
		topN := s.cfg.Curation.TopN
		if req.TopN != nil {
			topN = *req.TopN
		}
		agent := pipeline.NewCurator(repo, runLog)
		result, runErr = agent.Run(ctx, topN)
	case "3":
		mode := s.cfg.Generation.Mode
		if req.Mode != "" {
			mode = req.Mode
		}
		if err := s.cfg.ValidateForGeneration(mode); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		agent := pipeline.NewGenerator(s.cfg, repo, s.limiter, runLog)
		result, runErr = agent.Run(ctx, mode)
	case "4":
		agent := pipeline.NewEnhancer(s.cfg, repo, s.limiter, runLog)
		result, runErr = agent.Run(ctx)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown step %q", c.Param("step"))})
		return
	}

	if runErr != nil {
		s.log.Error().Err(runErr).Str("step", c.Param("step")).Msg("Step failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"ok":     false,
			"error":  runErr.Error(),
			"result": result,
			"logs":   capture.Entries(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"result": result,
		"logs":   capture.Entries(),
	})
}
