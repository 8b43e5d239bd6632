// /home/krylon/go/src/github.com/blicero/plantwatch/database/qdb.go
// -*- mode: go; coding: utf-8; -*-
// Created on 11. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-27 18:17:05 krylon>

package database

import (
	"github.com/blicero/plantwatch/database/query"
)

var qdb = map[query.ID]string{
	query.AssetAdd: `
INSERT OR IGNORE INTO assets (id, name, lat, lng, status)
                      VALUES ( ?,    ?,   ?,   ?,      ?)
`,
	query.AssetGetAll: `
SELECT
    id,
    name,
    lat,
    lng,
    status
FROM assets
ORDER BY id
`,
	query.AssetGetByID: `
SELECT
    name,
    lat,
    lng,
    status
FROM assets
WHERE id = ?
`,
	query.TelemetryAdd: `
INSERT INTO telemetry (asset_id, ts, moisture, health, co2)
               VALUES (       ?,  ?,        ?,      ?,   ?)
RETURNING id
`,
	query.TelemetryGetRecent: `
SELECT
    id,
    ts,
    moisture,
    health,
    co2
FROM telemetry
WHERE asset_id = ?
ORDER BY ts DESC
LIMIT ?
`,
	query.TelemetryGetLatest: `
SELECT
    id,
    ts,
    moisture,
    health,
    co2
FROM telemetry
WHERE asset_id = ?
ORDER BY ts DESC
LIMIT 1
`,
	query.CommandAdd: `
INSERT INTO commands (id, user_name, asset_id, cmd, params, requested_ts, status, note)
              VALUES ( ?,         ?,        ?,   ?,      ?,            ?,      ?,    ?)
`,
	query.CommandSetStatus: "UPDATE commands SET status = ? WHERE id = ?",
	query.CommandGetByID: `
SELECT
    user_name,
    asset_id,
    cmd,
    params,
    requested_ts,
    status,
    note
FROM commands
WHERE id = ?
`,
}
