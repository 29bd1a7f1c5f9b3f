// Package server exposes lab tests and health probes over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/go-logr/logr"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/vlabs/vmmanager/internal/labsync"
	"github.com/vlabs/vmmanager/internal/lock"
	"github.com/vlabs/vmmanager/internal/metrics"
	"github.com/vlabs/vmmanager/internal/probe"
	"github.com/vlabs/vmmanager/internal/provisioning"
)

// API routes.
const (
	RouteTestLab = "/api/1.0/execute/testlab"
	RouteInfo    = "/api/1.0/info/:probe"
	RouteMetrics = "/metrics"
	RouteHealth  = "/healthz"
)

// LabTester runs lab tests. Implemented by provisioning.Pipeline.
type LabTester interface {
	TestLab(ctx context.Context, src labsync.Source) provisioning.Result
}

// ProbeRunner answers health probes by name. Implemented by probe.Prober.
type ProbeRunner interface {
	Run(ctx context.Context, name string) (string, error)
}

// Config holds the server configuration.
type Config struct {
	// Address is the address to listen on (e.g. ":8089").
	Address string

	// EnableMetrics serves the Prometheus registry on /metrics.
	EnableMetrics bool

	// AccessLog receives one line per request. Nil disables it.
	AccessLog io.Writer

	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Server is the vmmanager HTTP API.
type Server struct {
	app    *fiber.App
	config Config
	tester LabTester
	probes ProbeRunner
	locker lock.Locker
	log    logr.Logger
}

// testLabRequest is the body of a test lab request, as form or JSON.
type testLabRequest struct {
	URL     string `json:"lab_src_url" form:"lab_src_url"`
	Version string `json:"version" form:"version"`
}

// New creates a Server. A nil locker serializes runs within this process.
func New(cfg Config, tester LabTester, probes ProbeRunner, locker lock.Locker, log logr.Logger) *Server {
	if locker == nil {
		locker = lock.NewMemoryLocker()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		config: cfg,
		tester: tester,
		probes: probes,
		locker: locker,
		log:    log.WithName("server"),
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "vmmanager",
		Immutable:             true,
		ReadTimeout:           cfg.ReadTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupMiddleware() {
	s.app.Use(fiberrecover.New(fiberrecover.Config{EnableStackTrace: true}))

	if s.config.AccessLog != nil {
		s.app.Use(logger.New(logger.Config{
			Format:        "${time} | ${status} | ${latency} | ${method} ${path}\n",
			TimeFormat:    "2006-01-02 03:04:05 PM",
			Output:        s.config.AccessLog,
			DisableColors: true,
		}))
	}
}

func (s *Server) setupRoutes() {
	s.app.Get(RouteHealth, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	s.app.Post(RouteTestLab, s.testLab)
	s.app.Get(RouteInfo, s.info)

	if s.config.EnableMetrics {
		s.app.Get(RouteMetrics, adaptor.HTTPHandler(metrics.Handler()))
	}
}

// Listen serves until ctx is done, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Listening", "address", s.config.Address)
		errCh <- s.app.Listen(s.config.Address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down")
	if err := s.app.ShutdownWithTimeout(s.config.ShutdownTimeout); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) testLab(c *fiber.Ctx) error {
	var req testLabRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.URL == "" {
		return fiber.NewError(fiber.StatusBadRequest, "lab_src_url is required")
	}

	ctx := c.UserContext()
	src := labsync.Source{URL: req.URL, Version: req.Version}

	held, err := s.locker.Acquire(ctx, labsync.RepoName(req.URL))
	if err != nil {
		s.log.Error(err, "Could not lock lab", "lab", req.URL)
		return fiber.NewError(fiber.StatusServiceUnavailable, "lab is busy")
	}
	defer func() {
		if rerr := held.Release(context.WithoutCancel(ctx)); rerr != nil {
			s.log.Error(rerr, "Could not release lab lock", "lab", req.URL)
		}
	}()

	result := s.tester.TestLab(ctx, src)
	c.Set("X-Run-ID", result.RunID)
	if !result.Success() {
		return c.Status(fiber.StatusInternalServerError).SendString(result.String())
	}
	return c.SendString(result.String())
}

func (s *Server) info(c *fiber.Ctx) error {
	out, err := s.probes.Run(c.UserContext(), c.Params("probe"))
	if errors.Is(err, probe.ErrUnknownProbe) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}
	return c.SendString(out)
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		s.log.Error(err, "Request failed", "method", c.Method(), "path", c.Path())
	}
	return c.Status(code).SendString(message)
}
