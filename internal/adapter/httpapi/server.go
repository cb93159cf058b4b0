// Package httpapi exposes the shipment lookup and seed-data endpoints.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/parcel-tracking/internal/domain"
	"github.com/couchcryptid/parcel-tracking/internal/jobs"
	"github.com/couchcryptid/parcel-tracking/internal/store"
)

// ShipmentFinder loads one shipment with its articles.
type ShipmentFinder interface {
	ShipmentByTrackingAndCarrier(ctx context.Context, trackingNumber, carrier string) (*domain.Shipment, error)
}

// WeatherProvider returns current weather for a city.
type WeatherProvider interface {
	CurrentByCity(ctx context.Context, city string) (domain.Weather, error)
}

// JobDispatcher publishes an ingestion job to the queue.
type JobDispatcher interface {
	Dispatch(ctx context.Context, job jobs.IngestJob) error
}

// StatusStore reads and writes job statuses.
type StatusStore interface {
	Get(ctx context.Context, jobID string) (jobs.Status, bool, error)
	Set(ctx context.Context, status jobs.Status) error
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server is the public HTTP surface of the tracking service.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	shipments  ShipmentFinder
	weather    WeatherProvider
	dispatcher JobDispatcher
	statuses   StatusStore
	logger     *slog.Logger
}

// NewServer creates the gin engine and wires all routes. weather may be
// nil when the weather integration is disabled.
func NewServer(addr string, shipments ShipmentFinder, weather WeatherProvider,
	dispatcher JobDispatcher, statuses StatusStore, ready ReadinessChecker, logger *slog.Logger) *Server {

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine:     engine,
		shipments:  shipments,
		weather:    weather,
		dispatcher: dispatcher,
		statuses:   statuses,
		logger:     logger,
	}

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/readyz", handleReady(ready))
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")
	api.GET("/shipments", s.handleGetShipment)
	api.POST("/seed-data", s.handleSeedData)
	api.GET("/seed-data/:id", s.handleSeedDataStatus)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// shipmentResponse adds the receiver-city weather to a shipment.
type shipmentResponse struct {
	domain.Shipment
	Weather domain.Weather `json:"weather"`
}

func (s *Server) handleGetShipment(c *gin.Context) {
	trackingNumber := c.Query("tracking_number")
	carrier := c.Query("carrier")
	if trackingNumber == "" || carrier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tracking_number and carrier are required"})
		return
	}

	shipment, err := s.shipments.ShipmentByTrackingAndCarrier(c.Request.Context(), trackingNumber, carrier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shipment not found"})
			return
		}
		s.logger.Error("shipment lookup failed", "tracking_number", trackingNumber, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, shipmentResponse{
		Shipment: *shipment,
		Weather:  s.receiverWeather(c.Request.Context(), shipment),
	})
}

// receiverWeather is best effort: any failure, a disabled integration, or
// an unparseable address degrades to the unavailable placeholder.
func (s *Server) receiverWeather(ctx context.Context, shipment *domain.Shipment) domain.Weather {
	if s.weather == nil {
		return domain.UnavailableWeather()
	}
	city := domain.ExtractCity(shipment.ReceiverAddress)
	if city == "" {
		return domain.UnavailableWeather()
	}
	w, err := s.weather.CurrentByCity(ctx, city)
	if err != nil {
		s.logger.Warn("weather lookup failed", "city", city, "error", err)
		return domain.UnavailableWeather()
	}
	return w
}

type seedDataRequest struct {
	CSVPath   string `json:"csv_path" binding:"required"`
	BatchSize int    `json:"batch_size"`
}

func (s *Server) handleSeedData(c *gin.Context) {
	var req seedDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv_path is required"})
		return
	}
	if req.BatchSize < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "batch_size must not be negative"})
		return
	}

	job := jobs.NewIngestJob(req.CSVPath, req.BatchSize)

	// PENDING is recorded before the dispatch so a poll right after the
	// 202 never sees an unknown job.
	if err := s.statuses.Set(c.Request.Context(), jobs.Status{JobID: job.ID, State: jobs.StatePending}); err != nil {
		s.logger.Error("recording pending job failed", "job_id", job.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if err := s.dispatcher.Dispatch(c.Request.Context(), job); err != nil {
		s.logger.Error("job dispatch failed", "job_id", job.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"job_id": job.ID})
}

func (s *Server) handleSeedDataStatus(c *gin.Context) {
	jobID := c.Param("id")

	status, found, err := s.statuses.Get(c.Request.Context(), jobID)
	if err != nil {
		s.logger.Error("job status lookup failed", "job_id", jobID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	c.JSON(http.StatusOK, status)
}
