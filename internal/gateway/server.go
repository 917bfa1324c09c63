package gateway

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/fcgi"
	"os"
	"sync"
)

// Mode selects where FastCGI requests arrive.
type Mode int

const (
	// ModePipe serves on the listening socket passed in as stdin.
	ModePipe Mode = iota
	// ModeTCP binds its own TCP listener.
	ModeTCP
)

func ModeFor(tcp bool) Mode {
	if tcp {
		return ModeTCP
	}
	return ModePipe
}

func (m Mode) String() string {
	switch m {
	case ModeTCP:
		return "tcp"
	case ModePipe:
		return "pipe"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Server runs the FastCGI serve loop for one handler.
type Server struct {
	mode    Mode
	addr    string
	handler http.Handler

	mu       sync.Mutex
	listener net.Listener
}

// New creates a server for mode. The address is only used in TCP mode and is
// checked when Listen binds it.
func New(mode Mode, addr string, handler http.Handler) (*Server, error) {
	switch mode {
	case ModeTCP:
	case ModePipe:
		addr = ""
	default:
		return nil, fmt.Errorf("unknown gateway mode %d", int(mode))
	}

	return &Server{
		mode:    mode,
		addr:    addr,
		handler: handler,
	}, nil
}

// Listen binds the TCP listener. It is a no-op in pipe mode, where the socket
// is inherited on stdin and only opened by Serve.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeTCP || s.listener != nil {
		return nil
	}

	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.addr, err)
	}
	s.listener = l
	return nil
}

// Serve accepts FastCGI requests until the listener is closed, invoking the
// handler for each one. Requests are served concurrently and see the
// QUERY_STRING param as r.URL.RawQuery.
func (s *Server) Serve() error {
	l, err := s.serveListener()
	if err != nil {
		return err
	}

	err = fcgi.Serve(paramsListener{Listener: l}, withQueryString(s.handler))
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}

func (s *Server) serveListener() (net.Listener, error) {
	if err := s.Listen(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		l, err := net.FileListener(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("listen on stdin: %w", err)
		}
		s.listener = l
	}
	return s.listener, nil
}

// Addr returns the bound address in TCP mode, or the configured one before
// Listen. It is empty in pipe mode.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ModeTCP && s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

func (s *Server) Mode() Mode {
	return s.mode
}

// Close stops the serve loop.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}
