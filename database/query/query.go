// /home/krylon/go/src/github.com/blicero/plantwatch/database/query/query.go
// -*- mode: go; coding: utf-8; -*-
// Created on 11. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-14 19:21:50 krylon>

// Package query provides symbolic constants to identify database queries.
package query

//go:generate stringer -type=ID

// ID represents a database query.
type ID uint8

const (
	AssetAdd ID = iota
	AssetGetAll
	AssetGetByID
	TelemetryAdd
	TelemetryGetRecent
	TelemetryGetLatest
	CommandAdd
	CommandSetStatus
	CommandGetByID
)
