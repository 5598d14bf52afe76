package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"finforge/internal/dispatcher"
	"finforge/internal/ledger"
	"finforge/internal/registry"
	"finforge/internal/session"
)

// Handler exposes the prediction pipeline over HTTP.
type Handler struct {
	dispatcher *dispatcher.Dispatcher
	registry   *registry.Registry
	ledger     *ledger.Ledger
	sessions   session.Tracker
}

// NewHandler creates the HTTP handler set.
func NewHandler(d *dispatcher.Dispatcher, reg *registry.Registry, led *ledger.Ledger, sessions session.Tracker) *Handler {
	return &Handler{
		dispatcher: d,
		registry:   reg,
		ledger:     led,
		sessions:   sessions,
	}
}

// NewRouter builds the gin engine with CORS and all routes registered.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", h.Home)
	r.POST("/predict/:game_id", h.Predict)
	r.GET("/games/:game_id/stats", h.GameStats)
	r.GET("/sessions/:session_id", h.Session)

	return r
}

// Home reports service status and the available game ids.
func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "FinForge server running",
		"available_games": h.registry.IDs(),
	})
}

// Predict runs one prediction for the game in the path. Unknown games are
// a 404; a malformed body is a 400; a broken model is still a 200 carrying
// the sentinel label, because the row was logged and the caller served.
func (h *Handler) Predict(c *gin.Context) {
	gameID := c.Param("game_id")

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	outcome, err := h.dispatcher.Run(c.Request.Context(), gameID, payload)
	if err != nil {
		if errors.Is(err, registry.ErrUnknownGame) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid game id"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save prediction"})
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// GameStats summarizes a game's ledger: data row count and file size.
func (h *Handler) GameStats(c *gin.Context) {
	entry, err := h.registry.Get(c.Param("game_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid game id"})
		return
	}

	stats, err := h.ledger.Stats(entry.LogPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game":  entry.Config.Name,
		"stats": stats,
	})
}

// Session returns tracked activity for a session id.
func (h *Handler) Session(c *gin.Context) {
	if h.sessions == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session tracking disabled"})
		return
	}

	act, err := h.sessions.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read session"})
		return
	}
	if act == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, act)
}
