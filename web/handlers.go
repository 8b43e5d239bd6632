// /home/krylon/go/src/github.com/blicero/plantwatch/web/handlers.go
// -*- mode: go; coding: utf-8; -*-
// Created on 14. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-27 20:02:33 krylon>

package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/blicero/plantwatch/alarm"
	"github.com/blicero/plantwatch/database"
	"github.com/blicero/plantwatch/model"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	defaultLimit = 200
	maxLimit     = 10000
)

// defaultUser is recorded for Commands submitted without a user_name.
const defaultUser = "tester"

// ingestRequest is one telemetry sample as delivered by the simulator.
// The legacy field names are explained in model.TelemetrySample.
type ingestRequest struct {
	AssetID    string   `json:"asset_id"`
	TS         string   `json:"ts"`
	Power      *float64 `json:"moisture"`
	Efficiency *float64 `json:"health"`
	NOx        *float64 `json:"co2"`
}

// commandRequest is an operator's command submission.
type commandRequest struct {
	UserName string         `json:"user_name"`
	AssetID  string         `json:"asset_id"`
	Cmd      string         `json:"cmd"`
	Params   map[string]any `json:"params"`
}

func (srv *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	srv.sendJSON(w, http.StatusOK, map[string]bool{"ok": true})
} // func (srv *Server) handleHealth(w http.ResponseWriter, r *http.Request)

func (srv *Server) handleAssetAll(w http.ResponseWriter, r *http.Request) {
	srv.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err    error
		db     *database.Database
		assets []*model.Asset
	)

	db = srv.pool.Get()
	defer srv.pool.Put(db)

	if assets, err = db.AssetGetAll(); err != nil {
		var msg = fmt.Sprintf("Failed to load assets from database: %s",
			err.Error())
		srv.log.Printf("[ERROR] %s\n", msg)
		srv.sendError(w, http.StatusInternalServerError, msg)
		return
	}

	srv.sendJSON(w, http.StatusOK, assets)
} // func (srv *Server) handleAssetAll(w http.ResponseWriter, r *http.Request)

func (srv *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	srv.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err      error
		db       *database.Database
		samples  []*model.TelemetrySample
		assetID  = r.URL.Query().Get("asset")
		limitStr = r.URL.Query().Get("limit")
		limit    = defaultLimit
	)

	if assetID == "" {
		srv.sendError(w, http.StatusBadRequest, "asset is required")
		return
	}

	if limitStr != "" {
		if limit, err = strconv.Atoi(limitStr); err != nil {
			srv.sendError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("cannot parse limit %q", limitStr))
			return
		}
	}

	if limit < 1 || limit > maxLimit {
		srv.sendError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("limit must be in [1, %d]", maxLimit))
		return
	}

	db = srv.pool.Get()
	defer srv.pool.Put(db)

	if samples, err = db.TelemetryGetRecent(assetID, limit); err != nil {
		var msg = fmt.Sprintf("Failed to load telemetry for %s: %s",
			assetID,
			err.Error())
		srv.log.Printf("[ERROR] %s\n", msg)
		srv.sendError(w, http.StatusInternalServerError, msg)
		return
	}

	var reply = map[string]any{
		"assetId": assetID,
		"series":  samples,
	}

	srv.sendJSON(w, http.StatusOK, reply)
} // func (srv *Server) handleTelemetry(w http.ResponseWriter, r *http.Request)

func (srv *Server) handleAlarms(w http.ResponseWriter, r *http.Request) {
	srv.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err     error
		db      *database.Database
		latest  *model.TelemetrySample
		assetID = r.URL.Query().Get("asset")
	)

	if assetID == "" {
		srv.sendError(w, http.StatusBadRequest, "asset is required")
		return
	}

	db = srv.pool.Get()
	defer srv.pool.Put(db)

	if latest, err = db.TelemetryGetLatest(assetID); err != nil {
		var msg = fmt.Sprintf("Failed to load latest sample for %s: %s",
			assetID,
			err.Error())
		srv.log.Printf("[ERROR] %s\n", msg)
		srv.sendError(w, http.StatusInternalServerError, msg)
		return
	}

	// Alarms are derived on the fly from the latest sample only; no
	// sample means no alarms.
	srv.sendJSON(w, http.StatusOK, alarm.Evaluate(latest))
} // func (srv *Server) handleAlarms(w http.ResponseWriter, r *http.Request)

func (srv *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	srv.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err error
		db  *database.Database
		req ingestRequest
	)

	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		srv.sendError(w, http.StatusBadRequest,
			fmt.Sprintf("cannot parse request body: %s", err.Error()))
		return
	} else if req.AssetID == "" || req.TS == "" {
		srv.sendError(w, http.StatusBadRequest, "asset_id and ts are required")
		return
	}

	db = srv.pool.Get()
	defer srv.pool.Put(db)

	// Auto-create unknown Assets: id doubles as the name, no
	// coordinates. AssetAdd is a no-op for Assets that already exist.
	var ast = &model.Asset{
		ID:     req.AssetID,
		Name:   req.AssetID,
		Status: model.StatusOK,
	}

	if err = db.AssetAdd(ast); err != nil {
		var msg = fmt.Sprintf("Failed to create Asset %s: %s",
			req.AssetID,
			err.Error())
		srv.log.Printf("[ERROR] %s\n", msg)
		srv.sendError(w, http.StatusInternalServerError, msg)
		return
	}

	var sample = &model.TelemetrySample{
		AssetID:    req.AssetID,
		TS:         req.TS,
		Power:      req.Power,
		Efficiency: req.Efficiency,
		NOx:        req.NOx,
	}

	if err = db.TelemetryAdd(sample); err != nil {
		var msg = fmt.Sprintf("Failed to store sample for Asset %s: %s",
			req.AssetID,
			err.Error())
		srv.log.Printf("[ERROR] %s\n", msg)
		srv.sendError(w, http.StatusInternalServerError, msg)
		return
	}

	srv.sendJSON(w, http.StatusOK, map[string]bool{"ok": true})
} // func (srv *Server) handleIngest(w http.ResponseWriter, r *http.Request)

func (srv *Server) handleCommandSubmit(w http.ResponseWriter, r *http.Request) {
	srv.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err error
		db  *database.Database
		req commandRequest
	)

	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		srv.sendError(w, http.StatusBadRequest,
			fmt.Sprintf("cannot parse request body: %s", err.Error()))
		return
	} else if req.AssetID == "" || req.Cmd == "" {
		srv.sendError(w, http.StatusBadRequest, "asset_id and cmd are required")
		return
	}

	if req.UserName == "" {
		req.UserName = defaultUser
	}

	var cmd = &model.Command{
		ID:          uuid.NewString(),
		UserName:    req.UserName,
		AssetID:     req.AssetID,
		Cmd:         req.Cmd,
		Params:      req.Params,
		RequestedTS: time.Now().UTC().Format(time.RFC3339),
		Status:      model.StatusPending,
	}

	db = srv.pool.Get()
	defer srv.pool.Put(db)

	if err = db.CommandAdd(cmd); err != nil {
		var msg = fmt.Sprintf("Failed to store Command for Asset %s: %s",
			req.AssetID,
			err.Error())
		srv.log.Printf("[ERROR] %s\n", msg)
		srv.sendError(w, http.StatusInternalServerError, msg)
		return
	}

	// The relay call happens inline; the request blocks until the
	// simulator answers or the Client's timeout expires. If we die
	// between CommandAdd and CommandSetStatus, the Command stays
	// PENDING forever. Known gap, nobody resolves it later.
	var payload = map[string]any{
		"user_name": cmd.UserName,
		"asset_id":  cmd.AssetID,
		"cmd":       cmd.Cmd,
		"params":    req.Params,
	}

	var status = srv.relay.Apply(cmd.ID, payload)

	if err = db.CommandSetStatus(cmd.ID, status); err != nil {
		var msg = fmt.Sprintf("Failed to update status of Command %s: %s",
			cmd.ID,
			err.Error())
		srv.log.Printf("[ERROR] %s\n", msg)
		srv.sendError(w, http.StatusInternalServerError, msg)
		return
	}

	var reply = map[string]string{
		"id":     cmd.ID,
		"status": status,
	}

	srv.sendJSON(w, http.StatusOK, reply)
} // func (srv *Server) handleCommandSubmit(w http.ResponseWriter, r *http.Request)

func (srv *Server) handleCommandDetails(w http.ResponseWriter, r *http.Request) {
	srv.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err error
		db  *database.Database
		cmd *model.Command
		id  = mux.Vars(r)["id"]
	)

	db = srv.pool.Get()
	defer srv.pool.Put(db)

	if cmd, err = db.CommandGetByID(id); err != nil {
		var msg = fmt.Sprintf("Failed to look up Command %s: %s",
			id,
			err.Error())
		srv.log.Printf("[ERROR] %s\n", msg)
		srv.sendError(w, http.StatusInternalServerError, msg)
		return
	} else if cmd == nil {
		srv.sendError(w, http.StatusNotFound, "not found")
		return
	}

	srv.sendJSON(w, http.StatusOK, cmd)
} // func (srv *Server) handleCommandDetails(w http.ResponseWriter, r *http.Request)
