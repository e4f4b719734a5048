package recommender

import (
	"context"
	"net/http"
	"strings"
	"time"

	"orderbot/internal/chat"
	"orderbot/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleHealth reports liveness and the active engine
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"engine": s.engine.Name(),
	})
}

// handleStats returns per-engine request statistics
func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.Snapshot())
}

// handleResetStats clears the request statistics
func (s *Server) handleResetStats(c *gin.Context) {
	s.monitor.Reset()
	s.logger.Info("request statistics reset")
	c.Status(http.StatusNoContent)
}

// handleChat answers POST /api/chat
func (s *Server) handleChat(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	resp, err := s.recommend(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate recommendations"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// recommend runs the engine and records the outcome
func (s *Server) recommend(ctx context.Context, req chat.Request) (*chat.Response, error) {
	start := time.Now()
	resp, err := s.engine.Recommend(ctx, req.Message, req.Menu)
	elapsed := time.Since(start)
	s.metrics.ObserveRecommendation(s.engine.Name(), err == nil, elapsed)
	s.monitor.Record(s.engine.Name(), err == nil, elapsed)

	if err != nil {
		s.logger.Error("recommendation failed",
			zap.String("engine", s.engine.Name()),
			zap.Int("menu_items", len(req.Menu)),
			zap.Error(err),
		)
		return nil, err
	}
	if resp.RecommendedMenu == nil {
		resp.RecommendedMenu = []models.MenuItem{}
	}

	s.logger.Debug("recommendation served",
		zap.String("engine", s.engine.Name()),
		zap.Int("menu_items", len(req.Menu)),
		zap.Int("recommended", len(resp.RecommendedMenu)),
		zap.Duration("elapsed", elapsed),
	)
	return resp, nil
}
