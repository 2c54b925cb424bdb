// Package server exposes match results, the FLAMES calculator and the love
// calculator over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"yashubustudio/vibematch/matcher"
	"yashubustudio/vibematch/vibematch"
)

const missingParamsMessage = "Please enter your name and class"

// Server answers result lookups and the two name calculators. It only reads
// its result index, so handlers are safe to run concurrently.
type Server struct {
	results *vibematch.ResultIndex
	cycle   matcher.Cycle
	love    *matcher.LoveCalculator
	log     zerolog.Logger
}

// New builds a server over an already loaded result index. cycle is the
// FLAMES elimination order used by /api/flames and love backs /api/love.
func New(results *vibematch.ResultIndex, cycle matcher.Cycle, love *matcher.LoveCalculator, logger zerolog.Logger) *Server {
	return &Server{
		results: results,
		cycle:   cycle,
		love:    love,
		log:     logger,
	}
}

// SetupRouter wires the routes onto a fresh gin engine.
func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.Health)
	api := r.Group("/api")
	api.GET("/results", s.LookupResult)
	api.POST("/flames", s.Flames)
	api.POST("/love", s.Love)
	return r
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.SetupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Int("people", s.results.Len()).Msg("lookup server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("shutting down lookup server")
		return srv.Shutdown(shutdownCtx)
	}
}

// Health reports liveness and how many people the index holds.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "people": s.results.Len()})
}

// ResultResponse is the body of a successful GET /api/results.
type ResultResponse struct {
	Name       string  `json:"name"`
	Class      string  `json:"class"`
	MatchName  string  `json:"match_name"`
	MatchClass string  `json:"match_class"`
	Label      string  `json:"label"`
	Fate       string  `json:"fate"`
	Aura       string  `json:"primary_aura,omitempty"`
	Score      float64 `json:"score"`
	Message    string  `json:"message"`
}

// LookupResult finds a person's partner by the name and class query
// parameters. Unknown and unpaired people both get 404 with the
// not-paired message.
func (s *Server) LookupResult(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	class := strings.TrimSpace(c.Query("class"))
	if name == "" || class == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": missingParamsMessage})
		return
	}

	row, ok := s.results.Find(name, class)
	if !ok || !row.Matched {
		c.JSON(http.StatusNotFound, gin.H{"error": vibematch.NotPairedMessage})
		return
	}
	c.JSON(http.StatusOK, ResultResponse{
		Name:       row.Name,
		Class:      row.Group,
		MatchName:  row.MatchName,
		MatchClass: row.MatchGroup,
		Label:      row.Label,
		Fate:       row.Fate,
		Aura:       row.Aura,
		Score:      row.Score,
		Message:    row.Message,
	})
}

// FlamesRequest is the body of POST /api/flames and POST /api/love.
type FlamesRequest struct {
	Name1 string `json:"name1" binding:"required"`
	Name2 string `json:"name2" binding:"required"`
}

// FlamesResponse carries the FLAMES outcome and its tie-break rank.
type FlamesResponse struct {
	Outcome string `json:"outcome"`
	Rank    int    `json:"rank"`
}

// Flames runs the FLAMES elimination on two names.
func (s *Server) Flames(c *gin.Context) {
	req, ok := bindNames(c)
	if !ok {
		return
	}
	out := matcher.FlamesWithCycle(req.Name1, req.Name2, s.cycle)
	c.JSON(http.StatusOK, FlamesResponse{Outcome: out.String(), Rank: out.Rank()})
}

// LoveResponse is the love calculator's percentage and message.
type LoveResponse struct {
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// Love runs the love calculator on two names. Names are used as typed,
// so the result depends on their order.
func (s *Server) Love(c *gin.Context) {
	req, ok := bindNames(c)
	if !ok {
		return
	}
	res := s.love.Calculate(strings.TrimSpace(req.Name1), strings.TrimSpace(req.Name2))
	c.JSON(http.StatusOK, LoveResponse{Percent: res.Percent, Message: res.Message})
}

func bindNames(c *gin.Context) (FlamesRequest, bool) {
	var req FlamesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return req, false
	}
	if strings.TrimSpace(req.Name1) == "" || strings.TrimSpace(req.Name2) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both names are required"})
		return req, false
	}
	return req, true
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
