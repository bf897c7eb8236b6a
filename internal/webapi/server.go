// Package webapi exposes the nearest-neighbor search mode over HTTP: a
// query endpoint backed by a Deduplicator's index, rate-limited, plus a
// websocket stream of indexing progress.
package webapi

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/time/rate"

	"github.com/neardedup/neardedup/internal/dedup"
)

// IndexStats reports the current state of the background index build.
type IndexStats struct {
	TotalDocuments int       `json:"totalDocuments"`
	IndexedSoFar   int       `json:"indexedSoFar"`
	Done           bool      `json:"done"`
	StartedAt      time.Time `json:"startedAt"`
}

// Server serves the /api/query search endpoint, /api/stats, and a
// progress websocket.
type Server struct {
	app *fiber.App
	dd  *dedup.Deduplicator

	limiter *rate.Limiter

	mu    sync.RWMutex
	stats IndexStats

	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	broadcast chan []byte
}

// Config controls request-rate limiting on the search endpoint.
type Config struct {
	// RequestsPerSecond caps /api/query throughput; zero disables limiting.
	RequestsPerSecond int
}

// NewServer wraps dd's nearest-neighbor index in an HTTP search surface.
func NewServer(dd *dedup.Deduplicator, cfg Config) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		app:       app,
		dd:        dd,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 100),
	}
	if cfg.RequestsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestsPerSecond)
	}

	s.setupRoutes()
	go s.handleBroadcast()

	return s
}

func (s *Server) setupRoutes() {
	s.app.Use(cors.New())

	api := s.app.Group("/api")
	api.Post("/query", s.handleQuery)
	api.Get("/stats", s.handleStats)

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(s.handleWebSocket))
}

type queryRequest struct {
	Text      string  `json:"text"`
	Threshold float64 `json:"threshold"`
}

type queryResponse struct {
	Matches []int `json:"matches"`
}

func (s *Server) handleQuery(c *fiber.Ctx) error {
	if s.limiter != nil && !s.limiter.Allow() {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
	}

	var req queryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Threshold <= 0 {
		req.Threshold = 0.7
	}

	matches := s.dd.Query(req.Text, req.Threshold)
	return c.JSON(queryResponse{Matches: matches})
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return c.JSON(s.stats)
}

// ReportProgress updates and broadcasts the index-build progress. It is
// called by the indexing goroutine, not by HTTP handlers.
func (s *Server) ReportProgress(indexedSoFar, total int, done bool) {
	s.mu.Lock()
	s.stats.IndexedSoFar = indexedSoFar
	s.stats.TotalDocuments = total
	s.stats.Done = done
	stats := s.stats
	s.mu.Unlock()

	data, _ := json.Marshal(map[string]interface{}{
		"type": "progress",
		"data": stats,
	})
	select {
	case s.broadcast <- data:
	default:
	}
}

func (s *Server) handleWebSocket(c *websocket.Conn) {
	s.clientsMu.Lock()
	s.clients[c] = true
	s.clientsMu.Unlock()

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, c)
		s.clientsMu.Unlock()
		c.Close()
	}()

	s.mu.RLock()
	data, _ := json.Marshal(map[string]interface{}{"type": "progress", "data": s.stats})
	s.mu.RUnlock()
	c.WriteMessage(websocket.TextMessage, data)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) handleBroadcast() {
	for msg := range s.broadcast {
		s.clientsMu.Lock()
		for client := range s.clients {
			if err := client.WriteMessage(websocket.TextMessage, msg); err != nil {
				client.Close()
				delete(s.clients, client)
			}
		}
		s.clientsMu.Unlock()
	}
}

// Start begins serving HTTP on addr, blocking until the server stops.
func (s *Server) Start(addr string) error {
	log.Printf("[*] search API listening on http://localhost%s\n", addr)
	return s.app.Listen(addr)
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	return s.app.Shutdown()
}
