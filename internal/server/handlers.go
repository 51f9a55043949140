package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/rivalscope/internal/database"
	"github.com/nao1215/rivalscope/internal/model"
	"github.com/nao1215/rivalscope/internal/report"
	"github.com/nao1215/rivalscope/internal/site"
)

// OwnerHeader names the request owner.
const OwnerHeader = "X-Owner-ID"

const defaultHistoryLimit = 30

type analyzeRequest struct {
	Domain string `json:"domain" binding:"required"`
	Owner  string `json:"owner"`
}

// historyResponse is the body of GET /api/competitors/:id/history.
type historyResponse struct {
	Competitor model.Competitor           `json:"competitor"`
	Snapshots  []model.SeoMetricsSnapshot `json:"snapshots"`
	Delta      *report.Delta              `json:"delta,omitempty"`
	Directions map[string]string          `json:"directions,omitempty"`
}

func (s *Server) owner(c *gin.Context) string {
	if owner := strings.TrimSpace(c.GetHeader(OwnerHeader)); owner != "" {
		return owner
	}
	if owner := strings.TrimSpace(c.Query("owner")); owner != "" {
		return owner
	}
	return s.defaultOwner
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, site.ErrInvalidDomain):
		return http.StatusBadRequest
	case errors.Is(err, site.ErrUnreachableDomain):
		return http.StatusBadGateway
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

func queryLimit(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		badRequest(c, "limit must be a positive integer")
		return 0, false
	}
	return n, true
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be JSON with a domain")
		return
	}
	owner := strings.TrimSpace(req.Owner)
	if owner == "" {
		owner = s.owner(c)
	}

	rep, err := s.analyzer.AnalyzeCompetitor(c.Request.Context(), req.Domain, owner)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) listCompetitors(c *gin.Context) {
	competitors, err := s.store.ListCompetitors(c.Request.Context(), s.owner(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	if competitors == nil {
		competitors = []model.Competitor{}
	}
	c.JSON(http.StatusOK, gin.H{"competitors": competitors})
}

func (s *Server) deleteCompetitor(c *gin.Context) {
	if err := s.store.DeleteCompetitor(c.Request.Context(), s.owner(c), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) latestMetrics(c *gin.Context) {
	ctx := c.Request.Context()
	competitor, err := s.store.GetCompetitorByID(ctx, s.owner(c), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	snapshot, err := s.store.LatestMetrics(ctx, competitor.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) metricsHistory(c *gin.Context) {
	limit, ok := queryLimit(c, defaultHistoryLimit)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	competitor, err := s.store.GetCompetitorByID(ctx, s.owner(c), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	snapshots, err := s.store.ListMetrics(ctx, competitor.ID, limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := historyResponse{Competitor: *competitor, Snapshots: snapshots}
	if resp.Snapshots == nil {
		resp.Snapshots = []model.SeoMetricsSnapshot{}
	}
	if len(snapshots) >= 2 {
		delta := report.Compare(snapshots[0], snapshots[1])
		resp.Delta = &delta
		resp.Directions = map[string]string{
			"backlinks":       report.Direction(delta.Backlinks),
			"domainAuthority": report.Direction(delta.DomainAuthority),
			"trafficEstimate": report.Direction(delta.TrafficEstimate),
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) listSuggestions(c *gin.Context) {
	limit, ok := queryLimit(c, database.DefaultSuggestionListLimit)
	if !ok {
		return
	}
	suggestions, err := s.store.ListSuggestions(c.Request.Context(), s.owner(c), c.Query("type"), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	if suggestions == nil {
		suggestions = []model.Suggestion{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func (s *Server) listAlerts(c *gin.Context) {
	limit, ok := queryLimit(c, 0)
	if !ok {
		return
	}
	unread := false
	if raw := c.Query("unread"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "unread must be a boolean")
			return
		}
		unread = v
	}

	alerts, err := s.store.ListAlerts(c.Request.Context(), s.owner(c), unread, limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	if alerts == nil {
		alerts = []model.Alert{}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

func (s *Server) markAlertRead(c *gin.Context) {
	if err := s.store.MarkAlertRead(c.Request.Context(), s.owner(c), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) runMonitor(c *gin.Context) {
	if s.monitor == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "monitor is not configured"})
		return
	}
	summary, err := s.monitor.RunOnce(c.Request.Context(), s.owner(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
