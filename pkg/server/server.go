// Package server owns the listening socket and hands every accepted
// connection to its own goroutine.
package server

import (
	"errors"
	"fmt"
	"net"

	"github.com/niels/simple-webserver/pkg/logging"
)

// Common errors
var (
	ErrBind = errors.New("failed to bind listener")
)

// ConnectionHandler processes one accepted connection.
// It takes full ownership of the connection and must close it.
type ConnectionHandler interface {
	HandleConnection(conn net.Conn)
}

// HandlerFunc adapts a function to ConnectionHandler
type HandlerFunc func(conn net.Conn)

// HandleConnection calls f(conn)
func (f HandlerFunc) HandleConnection(conn net.Conn) {
	f(conn)
}

// Server is the accept loop. It depends only on the handler interface.
type Server struct {
	Listener          net.Listener
	ConnectionHandler ConnectionHandler
}

// New creates a server for an already bound listener
func New(listener net.Listener, handler ConnectionHandler) *Server {
	return &Server{
		Listener:          listener,
		ConnectionHandler: handler,
	}
}

// Listen binds a TCP listener on addr. Failures wrap ErrBind.
func Listen(addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w on %s: %v", ErrBind, addr, err)
	}
	return listener, nil
}

// Start binds the given port on all interfaces and serves until the accept
// loop ends. It only returns on failure.
func Start(port int, handler ConnectionHandler) error {
	return ListenAndServe(fmt.Sprintf(":%d", port), handler)
}

// ListenAndServe binds addr and serves until the accept loop ends
func ListenAndServe(addr string, handler ConnectionHandler) error {
	listener, err := Listen(addr)
	if err != nil {
		logging.ErrorWith("Error binding listener", map[string]interface{}{
			"addr":  addr,
			"error": err,
		})
		return err
	}
	return New(listener, handler).Serve()
}

// Serve accepts connections until Accept fails. Each connection is handed
// to a new goroutine without waiting for it; there is no limit on how many
// run at once. Any accept error ends the loop and is returned.
func (s *Server) Serve() error {
	logging.InfoWith("Accepting connections", map[string]interface{}{
		"addr": s.Listener.Addr().String(),
	})

	for {
		conn, err := s.Listener.Accept()
		if err != nil {
			logging.ErrorWith("No longer accepting", map[string]interface{}{
				"error": err,
			})
			return fmt.Errorf("accept failed: %w", err)
		}
		go s.handleConnection(conn)
	}
}

// Close closes the listener, which ends Serve
func (s *Server) Close() error {
	return s.Listener.Close()
}

// Addr returns the bound address
func (s *Server) Addr() net.Addr {
	return s.Listener.Addr()
}

func (s *Server) handleConnection(conn net.Conn) {
	// Delegate the entire lifecycle to the handler
	s.ConnectionHandler.HandleConnection(conn)
}
