package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/polyrabbit/coin-board/config"
	"github.com/polyrabbit/coin-board/dashboard"
	"github.com/polyrabbit/coin-board/market"
	"github.com/polyrabbit/coin-board/writer"
)

// DefaultTimeout bounds one request, which covers at most two upstream calls.
const DefaultTimeout = 30 * time.Second

// Loader runs one fetch cycle.
type Loader interface {
	Load(ctx context.Context, currency string, force bool) *dashboard.Snapshot
}

type Handler struct {
	loader Loader
	cfg    *config.Config
}

func NewHandler(loader Loader, cfg *config.Config) *Handler {
	return &Handler{loader: loader, cfg: cfg}
}

// SetupRoutes builds the gin engine serving the dashboard API.
func (h *Handler) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"Content-Length", "Content-Disposition"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", h.HealthCheck)
	api := router.Group("/api")
	{
		api.GET("/dashboard", h.GetDashboard)
		api.GET("/export.csv", h.ExportCSV)
	}
	return router
}

func (h *Handler) Run(addr string) error {
	logrus.Infof("Serving dashboard on %s", addr)
	return h.SetupRoutes().Run(addr)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   config.Version,
	})
}

// GetDashboard handles GET /api/dashboard. Upstream failures still answer 200,
// the view carries the warnings and failure flags.
func (h *Handler) GetDashboard(c *gin.Context) {
	view, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

// ExportCSV handles GET /api/export.csv, the price data of the selected cryptos.
func (h *Handler) ExportCSV(c *gin.Context) {
	view, ok := h.load(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+writer.ExportFileName+`"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := writer.WriteCSV(c.Writer, view.Selected()); err != nil {
		logrus.WithError(err).Warn("Failed to write CSV export")
	}
}

func (h *Handler) load(c *gin.Context) (*dashboard.View, bool) {
	currency, err := market.ParseCurrency(c.DefaultQuery("currency", h.cfg.Currency))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	tf, err := market.ParseTimeframe(c.DefaultQuery("timeframe", h.cfg.Timeframe))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	symbols := h.cfg.Symbols
	if raw, ok := c.GetQuery("symbols"); ok {
		symbols = strings.Split(raw, ",")
	}
	force, _ := strconv.ParseBool(c.Query("refresh"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()
	snap := h.loader.Load(ctx, currency, force)
	return dashboard.Build(snap, market.NewSelection(symbols, tf)), true
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		}).Debugf("%s %s", c.Request.Method, c.Request.URL.RequestURI())
	}
}
