// Package web serves the pulse stream's live status over HTTP: a
// human-readable page and the same JSON snapshot the MQTT lifecycle
// payloads carry.
package web

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"time"

	"github.com/AndFroSwe/ExcSerial/internal/status"
)

// serverName labels responses so a port scan identifies the tool.
const serverName = "excserial"

// Paths served by the status server.
const (
	pathRoot = "/"
	pathPage = "/index.html"
	pathJSON = "/index.json"
)

// Server exposes tracker snapshots read-only. It holds no state of its
// own and never writes to the tracker.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
}

// New builds a server bound to addr that reads live state from tracker.
func New(addr string, tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker}

	mux := http.NewServeMux()
	mux.HandleFunc(pathRoot, s.handlePage)
	mux.HandleFunc(pathPage, s.handlePage)
	mux.HandleFunc(pathJSON, s.handleSnapshot)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// ListenAndServe opens the configured address and serves until Shutdown.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve serves on an already-open listener, for callers that bind the
// port themselves.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// handlePage renders the HTML status page. The page is built in memory
// first so a template failure yields a clean 500 instead of a torn body.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	// The root pattern catches every path without a registered handler.
	if r.URL.Path != pathRoot && r.URL.Path != pathPage {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := renderHTML(&buf, s.tracker.Snapshot()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Server", serverName)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleSnapshot serves the status document, indented for reading.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Server", serverName)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(status.FormatJSON(s.tracker.Snapshot()))
}
