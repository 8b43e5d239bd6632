// /home/krylon/go/src/github.com/blicero/plantwatch/web/web_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 18. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-27 21:20:36 krylon>

package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blicero/plantwatch/common"
	"github.com/blicero/plantwatch/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRelay stands in for the simulator so the handler tests do not need
// a live endpoint.
type stubRelay struct {
	status      string
	lastID      string
	lastPayload map[string]any
}

func (s *stubRelay) Apply(id string, payload map[string]any) string {
	s.lastID = id
	s.lastPayload = payload
	return s.status
} // func (s *stubRelay) Apply(id string, payload map[string]any) string

var (
	tsrv   *Server
	tweb   *httptest.Server
	trelay = &stubRelay{status: model.StatusAck}
)

func TestServerCreate(t *testing.T) {
	var (
		err     error
		baseDir = time.Now().Format("/tmp/plantwatch_web_test_20060102_150405")
	)

	require.NoError(t, common.SetBaseDir(baseDir))

	if tsrv, err = Create("[::1]:0", trelay); err != nil {
		t.Fatalf("Cannot create Server: %s",
			err.Error())
	}

	tweb = httptest.NewServer(tsrv.router)
} // func TestServerCreate(t *testing.T)

func getJSON(t *testing.T, path string, expectStatus int, dst any) {
	t.Helper()

	var res, err = http.Get(tweb.URL + path)
	require.NoError(t, err)
	defer res.Body.Close() // nolint: errcheck

	require.Equal(t, expectStatus, res.StatusCode)

	if dst != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(dst))
	}
} // func getJSON(t *testing.T, path string, expectStatus int, dst any)

func postJSON(t *testing.T, path string, body any, expectStatus int, dst any) {
	t.Helper()

	var buf, err = json.Marshal(body)
	require.NoError(t, err)

	var res *http.Response
	res, err = http.Post(tweb.URL+path, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	defer res.Body.Close() // nolint: errcheck

	require.Equal(t, expectStatus, res.StatusCode)

	if dst != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(dst))
	}
} // func postJSON(t *testing.T, path string, body any, expectStatus int, dst any)

func TestHandleHealth(t *testing.T) {
	if tsrv == nil {
		t.SkipNow()
	}

	var reply map[string]bool

	getJSON(t, "/health", http.StatusOK, &reply)
	assert.True(t, reply["ok"])
} // func TestHandleHealth(t *testing.T)

func TestHandleAssetAll(t *testing.T) {
	if tsrv == nil {
		t.SkipNow()
	}

	var assets []model.Asset

	getJSON(t, "/assets", http.StatusOK, &assets)
	require.Len(t, assets, 3)
	assert.Equal(t, "pp-001", assets[0].ID)
	assert.Equal(t, "Jenbacher CHP – Vienna", assets[0].Name)
	assert.Equal(t, model.StatusOK, assets[0].Status)
	require.NotNil(t, assets[0].Lat)
	assert.InDelta(t, 48.2082, *assets[0].Lat, 0.0001)
} // func TestHandleAssetAll(t *testing.T)

func TestHandleIngestInvalid(t *testing.T) {
	if tsrv == nil {
		t.SkipNow()
	}

	// Missing ts, missing asset_id - nothing gets persisted.
	postJSON(t, "/ingest", map[string]any{"asset_id": "gt-200"}, http.StatusBadRequest, nil)
	postJSON(t, "/ingest", map[string]any{"ts": "2026-08-27T10:00:00Z"}, http.StatusBadRequest, nil)

	var assets []model.Asset

	getJSON(t, "/assets", http.StatusOK, &assets)
	assert.Len(t, assets, 3, "A rejected ingest must not create an Asset")
} // func TestHandleIngestInvalid(t *testing.T)

func TestHandleIngest(t *testing.T) {
	if tsrv == nil {
		t.SkipNow()
	}

	var reply map[string]bool

	for i, power := range []float64{1.2, 0.3, 1.8} {
		var body = map[string]any{
			"asset_id": "gt-200",
			"ts":       fmt.Sprintf("2026-08-27T10:0%d:00Z", i),
			"moisture": power,
			"health":   50.0,
			"co2":      100.0,
		}

		postJSON(t, "/ingest", body, http.StatusOK, &reply)
		assert.True(t, reply["ok"])
	}

	// The unknown Asset was auto-created: id doubles as name, no
	// coordinates.
	var assets []model.Asset

	getJSON(t, "/assets", http.StatusOK, &assets)
	require.Len(t, assets, 4)
	assert.Equal(t, "gt-200", assets[0].ID)
	assert.Equal(t, "gt-200", assets[0].Name)
	assert.Nil(t, assets[0].Lat)
	assert.Nil(t, assets[0].Lng)
} // func TestHandleIngest(t *testing.T)

func TestHandleTelemetry(t *testing.T) {
	if tsrv == nil {
		t.SkipNow()
	}

	var reply struct {
		AssetID string                   `json:"assetId"`
		Series  []*model.TelemetrySample `json:"series"`
	}

	getJSON(t, "/telemetry?asset=gt-200", http.StatusOK, &reply)
	assert.Equal(t, "gt-200", reply.AssetID)
	require.Len(t, reply.Series, 3)

	for i, s := range reply.Series {
		if i > 0 {
			assert.Less(t, reply.Series[i-1].TS, s.TS,
				"Series must be in chronological order")
		}
	}

	getJSON(t, "/telemetry?asset=gt-200&limit=2", http.StatusOK, &reply)
	require.Len(t, reply.Series, 2)
	assert.Equal(t, "2026-08-27T10:01:00Z", reply.Series[0].TS)
	assert.Equal(t, "2026-08-27T10:02:00Z", reply.Series[1].TS)

	// An Asset without samples yields an empty series, not an error.
	getJSON(t, "/telemetry?asset=pp-003", http.StatusOK, &reply)
	assert.Empty(t, reply.Series)
} // func TestHandleTelemetry(t *testing.T)

func TestHandleTelemetryInvalid(t *testing.T) {
	if tsrv == nil {
		t.SkipNow()
	}

	getJSON(t, "/telemetry", http.StatusBadRequest, nil)
	getJSON(t, "/telemetry?asset=gt-200&limit=0", http.StatusUnprocessableEntity, nil)
	getJSON(t, "/telemetry?asset=gt-200&limit=10001", http.StatusUnprocessableEntity, nil)
	getJSON(t, "/telemetry?asset=gt-200&limit=bogus", http.StatusUnprocessableEntity, nil)
} // func TestHandleTelemetryInvalid(t *testing.T)

func TestHandleAlarms(t *testing.T) {
	if tsrv == nil {
		t.SkipNow()
	}

	var alarms []model.Alarm

	// No samples, no alarms.
	getJSON(t, "/alarms?asset=pp-003", http.StatusOK, &alarms)
	assert.Empty(t, alarms)

	// The most recent sample for gt-200 has power 1.8, all clear.
	getJSON(t, "/alarms?asset=gt-200", http.StatusOK, &alarms)
	assert.Empty(t, alarms)

	// Push a low-power sample, it becomes the latest one.
	postJSON(t, "/ingest", map[string]any{
		"asset_id": "gt-200",
		"ts":       "2026-08-27T10:09:00Z",
		"moisture": 0.3,
		"health":   50.0,
		"co2":      100.0,
	}, http.StatusOK, nil)

	getJSON(t, "/alarms?asset=gt-200", http.StatusOK, &alarms)
	require.Len(t, alarms, 1)
	assert.Equal(t, "POWER_LOW", alarms[0].Type)
	assert.Equal(t, "HIGH", alarms[0].Severity)
	assert.Equal(t, "2026-08-27T10:09:00Z", alarms[0].TS)

	getJSON(t, "/alarms", http.StatusBadRequest, nil)
} // func TestHandleAlarms(t *testing.T)

func TestHandleCommandInvalid(t *testing.T) {
	if tsrv == nil {
		t.SkipNow()
	}

	postJSON(t, "/commands", map[string]any{"asset_id": "pp-001"}, http.StatusBadRequest, nil)
	postJSON(t, "/commands", map[string]any{"cmd": "setpoint"}, http.StatusBadRequest, nil)
} // func TestHandleCommandInvalid(t *testing.T)

func TestHandleCommandSubmit(t *testing.T) {
	if tsrv == nil {
		t.SkipNow()
	}

	trelay.status = model.StatusAck

	var reply map[string]string

	postJSON(t, "/commands", map[string]any{
		"asset_id": "pp-001",
		"cmd":      "setpoint",
		"params":   map[string]any{"value": 2.5},
	}, http.StatusOK, &reply)

	require.NotEmpty(t, reply["id"])
	assert.Equal(t, model.StatusAck, reply["status"])
	assert.Equal(t, reply["id"], trelay.lastID)
	assert.Equal(t, "setpoint", trelay.lastPayload["cmd"])
	assert.Equal(t, defaultUser, trelay.lastPayload["user_name"])

	// The stored record carries the terminal status and the decoded
	// Params.
	var cmd model.Command

	getJSON(t, "/commands/"+reply["id"], http.StatusOK, &cmd)
	assert.Equal(t, model.StatusAck, cmd.Status)
	assert.Equal(t, defaultUser, cmd.UserName)
	assert.Equal(t, "pp-001", cmd.AssetID)

	var params, ok = cmd.Params.(map[string]any)
	require.True(t, ok, "Params did not round-trip as a map: %T", cmd.Params)
	assert.Equal(t, 2.5, params["value"])
} // func TestHandleCommandSubmit(t *testing.T)

func TestHandleCommandRelayDown(t *testing.T) {
	if tsrv == nil {
		t.SkipNow()
	}

	// A failing relay must surface as status FAILED, never as a failed
	// request.
	trelay.status = model.StatusFailed

	var reply map[string]string

	postJSON(t, "/commands", map[string]any{
		"user_name": "operator",
		"asset_id":  "pp-002",
		"cmd":       "stop",
	}, http.StatusOK, &reply)

	assert.Equal(t, model.StatusFailed, reply["status"])

	var cmd model.Command

	getJSON(t, "/commands/"+reply["id"], http.StatusOK, &cmd)
	assert.Equal(t, model.StatusFailed, cmd.Status)
	assert.Equal(t, "operator", cmd.UserName)
} // func TestHandleCommandRelayDown(t *testing.T)

func TestHandleCommandNotFound(t *testing.T) {
	if tsrv == nil {
		t.SkipNow()
	}

	var reply map[string]string

	getJSON(t, "/commands/never-issued", http.StatusNotFound, &reply)
	assert.Equal(t, "not found", reply["detail"])
} // func TestHandleCommandNotFound(t *testing.T)
