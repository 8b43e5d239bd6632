// /home/krylon/go/src/github.com/blicero/plantwatch/model/model.go
// -*- mode: go; coding: utf-8; -*-
// Created on 10. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-27 17:52:31 krylon>

// Package model provides data types used throughout the application.
package model

// Status values a Command can have. A Command starts out as StatusPending
// and is moved to a terminal status exactly once, within the request that
// created it. The relay may also report a status string of its own.
const (
	StatusPending = "PENDING"
	StatusAck     = "ACK"
	StatusFailed  = "FAILED"
)

// StatusOK is the initial (and, so far, only) status of an Asset.
const StatusOK = "OK"

// Asset is a monitored power-generation unit.
// Lat and Lng are nil for assets that were auto-created at ingest time.
type Asset struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
	Status string   `json:"status"`
}

// TelemetrySample is one timestamped measurement triple for an Asset.
//
// The wire and column names date back to the sensor network this schema was
// lifted from, the fields have been repurposed:
//
//	moisture -> electrical power P_e (MW)
//	health   -> electrical efficiency (%)
//	co2      -> NOx (ppm)
//
// TS is a caller-supplied timestamp string; samples are ordered by comparing
// these strings, so callers need to supply sortable ISO-8601-ish values.
type TelemetrySample struct {
	ID         int64    `json:"-"`
	AssetID    string   `json:"-"`
	TS         string   `json:"ts"`
	Power      *float64 `json:"moisture"`
	Efficiency *float64 `json:"health"`
	NOx        *float64 `json:"co2"`
}

// Command is an operator-initiated instruction relayed to the external
// control system. Params is a free-form key-value payload; it is stored as
// JSON text and handed back decoded, or as the raw string if the stored
// text turns out not to be valid JSON.
type Command struct {
	ID          string `json:"id"`
	UserName    string `json:"user_name"`
	AssetID     string `json:"asset_id"`
	Cmd         string `json:"cmd"`
	Params      any    `json:"params"`
	RequestedTS string `json:"requested_ts"`
	Status      string `json:"status"`
	Note        string `json:"note"`
}

// Alarm is a condition flag derived from an Asset's most recent
// TelemetrySample. Alarms are computed on the fly and never stored.
type Alarm struct {
	TS       string `json:"ts"`
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}
