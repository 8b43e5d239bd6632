// /home/krylon/go/src/github.com/blicero/plantwatch/logdomain/logdomain.go
// -*- mode: go; coding: utf-8; -*-
// Created on 10. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-22 18:03:44 krylon>

package logdomain

// ID represents the various pieces of the application that may want to log messages.
type ID uint8

//go:generate stringer -type=ID

const (
	Common ID = iota
	Database
	DBPool
	Relay
	Web
)

// AllDomains returns a slice of all valid values for logdomain.ID
func AllDomains() []ID {
	return []ID{
		Common,
		Database,
		DBPool,
		Relay,
		Web,
	}
} // func AllDomains() []ID
