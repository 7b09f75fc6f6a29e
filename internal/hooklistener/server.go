// Package hooklistener implements the HTTP endpoint a registered platform
// hook delivers notifications to. It validates and buffers incoming
// deliveries on a channel; acting on them (fetching the record, confirming
// it) is the consumer's concern.
package hooklistener

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Delivery is one hook notification as received from the platform.
type Delivery struct {
	// ID identifies this delivery locally; the platform sends none.
	ID         uuid.UUID `json:"id"`
	ReceivedAt time.Time `json:"receivedAt"`

	DossierUUID string `json:"dossierUuid"`
	RecordUUID  string `json:"recordUuid"`
	MessageType string `json:"messageType"`
	Node        string `json:"node"`
	Status      string `json:"status"`

	// Body is the raw notification payload, kept for fields the typed
	// view above does not cover.
	Body json.RawMessage `json:"-"`
}

// Config configures a listener.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// BufferSize caps the number of unconsumed deliveries. Zero means 64.
	BufferSize int
	// CORSOrigins, when non-empty, enables CORS for the given origins.
	CORSOrigins []string
}

// Server receives hook deliveries over HTTP.
type Server struct {
	cfg        Config
	logger     *zap.Logger
	engine     *gin.Engine
	metrics    *metrics
	deliveries chan Delivery

	httpSrv *http.Server
}

// New builds the listener with its routes wired.
func New(cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 64
	}

	s := &Server{
		cfg:        cfg,
		logger:     logger,
		metrics:    newMetrics(),
		deliveries: make(chan Delivery, cfg.BufferSize),
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	if len(cfg.CORSOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: []string{"POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	// Notification payloads are small; anything bigger is not a hook call.
	engine.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 1<<20)
		c.Next()
	})
	engine.Use(s.requestLogger())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", s.metrics.handler())
	engine.POST("/hook", s.handleDelivery)

	s.engine = engine
	return s
}

// Deliveries is the stream of buffered notifications, oldest first.
func (s *Server) Deliveries() <-chan Delivery { return s.deliveries }

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("hook listener request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func (s *Server) handleDelivery(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.metrics.deliveriesTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	d := Delivery{
		ID:         uuid.New(),
		ReceivedAt: time.Now().UTC(),
		Body:       body,
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &d); err != nil {
			s.metrics.deliveriesTotal.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}
	}

	select {
	case s.deliveries <- d:
		s.metrics.deliveriesTotal.WithLabelValues("accepted").Inc()
		s.metrics.queueDepth.Set(float64(len(s.deliveries)))
		s.logger.Info("hook delivery accepted",
			zap.String("deliveryId", d.ID.String()),
			zap.String("dossierUuid", d.DossierUUID),
			zap.String("recordUuid", d.RecordUUID),
		)
		c.JSON(http.StatusOK, gin.H{"deliveryId": d.ID.String()})
	default:
		s.metrics.deliveriesTotal.WithLabelValues("dropped").Inc()
		s.logger.Warn("hook delivery dropped, buffer full",
			zap.Int("bufferSize", s.cfg.BufferSize),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "delivery buffer full"})
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("hook listener started", zap.String("addr", s.cfg.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}
