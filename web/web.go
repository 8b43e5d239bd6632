// /home/krylon/go/src/github.com/blicero/plantwatch/web/web.go
// -*- mode: go; coding: utf-8; -*-
// Created on 14. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-27 19:44:17 krylon>

// Package web implements the HTTP/JSON interface.
package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/blicero/plantwatch/common"
	"github.com/blicero/plantwatch/database"
	"github.com/blicero/plantwatch/logdomain"
	"github.com/gorilla/mux"
)

const (
	poolSize = 4
	noCache  = "no-store, max-age=0"
)

// CommandRelay hands a Command to the external control system and reports
// the resulting status. It lives behind an interface so the synchronous
// relay.Client can be swapped out without touching any handler.
type CommandRelay interface {
	Apply(id string, payload map[string]any) string
}

// Server wraps the state required for the web interface.
type Server struct {
	addr   string
	log    *log.Logger
	pool   *database.Pool
	relay  CommandRelay
	active atomic.Bool
	router *mux.Router
	web    http.Server
}

// Create creates and returns a new Server.
func Create(addr string, rc CommandRelay) (*Server, error) {
	var (
		err error
		srv = &Server{
			addr:  addr,
			relay: rc,
		}
	)

	if srv.log, err = common.GetLogger(logdomain.Web); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Error creating Logger: %s\n",
			err.Error())
		return nil, err
	} else if srv.pool, err = database.NewPool(poolSize); err != nil {
		srv.log.Printf("[ERROR] Cannot allocate database connection pool: %s\n",
			err.Error())
		return nil, err
	}

	srv.router = mux.NewRouter()
	srv.web.Addr = addr
	srv.web.ErrorLog = srv.log
	srv.web.Handler = srv.router

	srv.router.Use(srv.corsMiddleware)

	srv.router.HandleFunc("/health", srv.handleHealth).Methods("GET")
	srv.router.HandleFunc("/assets", srv.handleAssetAll).Methods("GET")
	srv.router.HandleFunc("/telemetry", srv.handleTelemetry).Methods("GET")
	srv.router.HandleFunc("/alarms", srv.handleAlarms).Methods("GET")
	srv.router.HandleFunc("/ingest", srv.handleIngest).Methods("POST")
	srv.router.HandleFunc("/commands", srv.handleCommandSubmit).Methods("POST")
	srv.router.HandleFunc("/commands/{id}", srv.handleCommandDetails).Methods("GET")

	// Preflight requests need to match a route, or the CORS middleware
	// never sees them.
	srv.router.PathPrefix("/").Methods("OPTIONS").HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {})

	return srv, nil
} // func Create(addr string, rc CommandRelay) (*Server, error)

// IsActive returns the Server's active flag.
func (srv *Server) IsActive() bool {
	return srv.active.Load()
} // func (srv *Server) IsActive() bool

// Stop clears the Server's active flag.
func (srv *Server) Stop() {
	srv.active.Store(false)
} // func (srv *Server) Stop()

// Run executes the Server's loop, waiting for new connections and starting
// goroutines to handle them.
func (srv *Server) Run() {
	var err error

	defer srv.log.Println("[INFO] Web server is shutting down")

	srv.active.Store(true)
	srv.log.Printf("[INFO] API is going online at %s\n", srv.addr)

	if err = srv.web.ListenAndServe(); err != nil {
		if err.Error() != "http: Server closed" {
			srv.log.Printf("[ERROR] ListenAndServe returned an error: %s\n",
				err.Error())
		} else {
			srv.log.Println("[INFO] HTTP Server has shut down.")
		}
	}
} // func (srv *Server) Run()

// The dashboard is served from a different origin, so we are rather
// liberal here, like the original backend was.
func (srv *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
} // func (srv *Server) corsMiddleware(next http.Handler) http.Handler

func (srv *Server) sendJSON(w http.ResponseWriter, status int, payload any) {
	var (
		err error
		buf []byte
	)

	if buf, err = json.Marshal(payload); err != nil {
		srv.log.Printf("[CANTHAPPEN] Cannot serialize response: %s\n",
			err.Error())
		srv.sendError(w, http.StatusInternalServerError, "cannot serialize response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", noCache)
	w.WriteHeader(status)
	w.Write(buf) // nolint: errcheck,gosec
} // func (srv *Server) sendJSON(w http.ResponseWriter, status int, payload any)

func (srv *Server) sendError(w http.ResponseWriter, status int, msg string) {
	var body = fmt.Sprintf(`{ "detail": %q }`, msg)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", noCache)
	w.WriteHeader(status)
	w.Write([]byte(body)) // nolint: errcheck,gosec
} // func (srv *Server) sendError(w http.ResponseWriter, status int, msg string)
