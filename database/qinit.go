// /home/krylon/go/src/github.com/blicero/plantwatch/database/qinit.go
// -*- mode: go; coding: utf-8; -*-
// Created on 11. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-27 18:14:36 krylon>

package database

// This file contains the SQL queries to initialize a fresh database.
// Having that defined inside the application is both convenient for reference
// and for testing.
//
// The telemetry columns moisture/health/co2 keep the names of the sensor
// schema this was derived from, but have been repurposed:
// moisture is electrical power (MW), health is electrical efficiency (%),
// co2 is NOx (ppm). The wire format uses the same names, so renaming the
// columns would buy us nothing but confusion.

var qinit = []string{
	`
CREATE TABLE assets (
    id		TEXT PRIMARY KEY,
    name	TEXT NOT NULL,
    lat		REAL,
    lng		REAL,
    status	TEXT NOT NULL DEFAULT 'OK'
) STRICT
`,
	`
CREATE TABLE telemetry (
    id		INTEGER PRIMARY KEY,
    asset_id	TEXT NOT NULL,
    ts		TEXT NOT NULL,
    moisture	REAL,
    health	REAL,
    co2		REAL,
    FOREIGN KEY (asset_id) REFERENCES assets (id)
        ON UPDATE RESTRICT
        ON DELETE CASCADE
) STRICT
`,
	"CREATE INDEX tm_asset_idx ON telemetry (asset_id)",
	"CREATE INDEX tm_ts_idx ON telemetry (ts)",
	`
CREATE TABLE commands (
    id		TEXT PRIMARY KEY,
    user_name	TEXT NOT NULL DEFAULT '',
    asset_id	TEXT NOT NULL,
    cmd		TEXT NOT NULL,
    params	TEXT NOT NULL DEFAULT '{}',
    requested_ts TEXT NOT NULL,
    status	TEXT NOT NULL DEFAULT 'PENDING',
    note	TEXT NOT NULL DEFAULT ''
) STRICT
`,
	"CREATE INDEX cmd_asset_idx ON commands (asset_id)",

	// Seed the three demo plants.
	`
INSERT OR IGNORE INTO assets (id, name, lat, lng, status)
VALUES ('pp-001', 'Jenbacher CHP – Vienna',       48.2082, 16.3738, 'OK'),
       ('pp-002', 'District Heat CHP – Budapest', 47.4979, 19.0402, 'OK'),
       ('pp-003', 'Peaking Gas Engine – Graz',    47.0707, 15.4395, 'OK')
`,
}
