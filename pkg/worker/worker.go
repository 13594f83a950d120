// Package worker handles exactly one client connection end to end:
// read the request, classify the resource, write the header, deliver the body.
package worker

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/niels/simple-webserver/pkg/config"
	"github.com/niels/simple-webserver/pkg/content"
	"github.com/niels/simple-webserver/pkg/delivery"
	"github.com/niels/simple-webserver/pkg/logging"
	"github.com/niels/simple-webserver/pkg/request"
	"github.com/niels/simple-webserver/pkg/response"
	"github.com/rs/zerolog"
)

// Worker serves single-request connections. It holds no per-connection
// state, so one Worker may serve any number of connections concurrently.
type Worker struct {
	Root         string
	ServerName   string
	IdleTimeout  time.Duration
	WriteTimeout time.Duration
	Deliverer    *delivery.Deliverer
	Now          func() time.Time
}

// New creates a worker serving files below root with the given settings
func New(cfg *config.Config, root string) *Worker {
	return &Worker{
		Root:         root,
		ServerName:   cfg.Server.Name,
		IdleTimeout:  cfg.IdleTimeoutDuration(),
		WriteTimeout: cfg.WriteTimeoutDuration(),
		Deliverer:    delivery.NewDeliverer(cfg.Server.Identity),
		Now:          time.Now,
	}
}

// HandleConnection takes ownership of conn, answers one request and closes it.
func (w *Worker) HandleConnection(conn net.Conn) {
	defer conn.Close()

	logger := logging.WithComponent("worker").With().
		Str("conn_id", uuid.NewString()).
		Str("remote_addr", conn.RemoteAddr().String()).
		Logger()

	logger.Info().Msg("Handling connection")
	start := time.Now()

	err := w.serve(conn, logger)
	switch {
	case err == nil:
	case errors.Is(err, request.ErrIdleTimeout):
		logger.Warn().Err(err).Msg("Request abandoned")
	case errors.Is(err, request.ErrRequestTooLarge):
		logger.Warn().Err(err).Msg("Request rejected")
	case errors.Is(err, delivery.ErrNotFound):
		logger.Warn().Err(err).Msg("Resource not found")
	default:
		logger.Error().Err(err).Msg("Output error")
	}

	logger.Info().Dur("elapsed", time.Since(start)).Msg("Done handling connection")
}

func (w *Worker) serve(conn net.Conn, logger zerolog.Logger) error {
	parser := request.NewParser(w.IdleTimeout, logger)
	path, err := parser.Parse(conn)
	if err != nil {
		if errors.Is(err, request.ErrIdleTimeout) || errors.Is(err, request.ErrRequestTooLarge) {
			return err
		}
		// Serve whatever path was read before the failure
		logger.Warn().Err(err).Str("path", path).Msg("Request error")
	}

	contentType := content.Classify(path)
	resource := request.Resolve(w.Root, path)
	logger.Debug().
		Str("path", path).
		Str("resource", resource).
		Str("content_type", contentType.String()).
		Msg("Request parsed")

	if w.WriteTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(w.WriteTimeout)); err != nil {
			return fmt.Errorf("failed to set write deadline: %w", err)
		}
	}

	out := bufio.NewWriter(conn)
	if err := response.WriteHeader(out, w.ServerName, contentType, w.now()); err != nil {
		return err
	}

	n, deliverErr := w.Deliverer.Deliver(out, resource, contentType)
	if err := out.Flush(); err != nil {
		return fmt.Errorf("failed to flush response: %w", err)
	}
	if deliverErr != nil {
		return deliverErr
	}

	logger.Info().
		Str("path", path).
		Str("content_type", contentType.String()).
		Int64("bytes", n).
		Msg("Response sent")
	return nil
}

func (w *Worker) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}
