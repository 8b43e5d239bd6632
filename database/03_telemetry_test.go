// /home/krylon/go/src/github.com/blicero/plantwatch/database/03_telemetry_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 16. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-27 20:31:47 krylon>

package database

import (
	"fmt"
	"testing"

	"github.com/blicero/plantwatch/model"
)

const (
	sampleCnt   = 8
	sampleAsset = "pp-001"
)

func fptr(f float64) *float64 { return &f }

// Insertion order is deliberately not chronological; ordering is by the
// timestamp strings alone.
func TestTelemetryAdd(t *testing.T) {
	if tdb == nil {
		t.SkipNow()
	}

	var (
		err    error
		status = false
	)

	tdb.Begin() // nolint: errcheck
	defer func() {
		if status {
			tdb.Commit() // nolint: errcheck
		} else {
			t.Log("Rolling back database transaction.")
			tdb.Rollback() // nolint: errcheck
		}
	}()

	for _, n := range []int{3, 1, 7, 0, 5, 2, 6, 4} {
		var s = &model.TelemetrySample{
			AssetID:    sampleAsset,
			TS:         fmt.Sprintf("2026-08-27T10:0%d:00Z", n),
			Power:      fptr(1.5 + float64(n)/10),
			Efficiency: fptr(41.0),
			NOx:        fptr(120.0),
		}

		if err = tdb.TelemetryAdd(s); err != nil {
			t.Fatalf("Cannot add sample %s for Asset %s: %s",
				s.TS,
				sampleAsset,
				err.Error())
		} else if s.ID == 0 {
			t.Fatalf("TelemetryAdd did not set the ID of sample %s",
				s.TS)
		}
	}

	status = true
} // func TestTelemetryAdd(t *testing.T)

func TestTelemetryGetRecent(t *testing.T) {
	if tdb == nil {
		t.SkipNow()
	}

	var (
		err     error
		samples []*model.TelemetrySample
	)

	if samples, err = tdb.TelemetryGetRecent(sampleAsset, sampleCnt*2); err != nil {
		t.Fatalf("Failed to load samples for Asset %s: %s",
			sampleAsset,
			err.Error())
	} else if len(samples) != sampleCnt {
		t.Fatalf("TelemetryGetRecent returned %d samples, expected %d",
			len(samples),
			sampleCnt)
	}

	for i, s := range samples {
		if i > 0 && samples[i-1].TS >= s.TS {
			t.Errorf("Samples are not in chronological order: %s before %s",
				samples[i-1].TS,
				s.TS)
		}
	}
} // func TestTelemetryGetRecent(t *testing.T)

func TestTelemetryGetRecentLimit(t *testing.T) {
	if tdb == nil {
		t.SkipNow()
	}

	const limit = 3

	var (
		err     error
		samples []*model.TelemetrySample
	)

	if samples, err = tdb.TelemetryGetRecent(sampleAsset, limit); err != nil {
		t.Fatalf("Failed to load samples for Asset %s: %s",
			sampleAsset,
			err.Error())
	} else if len(samples) != limit {
		t.Fatalf("TelemetryGetRecent returned %d samples, expected %d",
			len(samples),
			limit)
	}

	// With a limit of 3 and samples at 10:00 through 10:07, we expect
	// the three most recent ones, oldest first.
	var expect = []string{
		"2026-08-27T10:05:00Z",
		"2026-08-27T10:06:00Z",
		"2026-08-27T10:07:00Z",
	}

	for i, s := range samples {
		if s.TS != expect[i] {
			t.Errorf("Unexpected sample at position %d: %s (expected %s)",
				i,
				s.TS,
				expect[i])
		}
	}
} // func TestTelemetryGetRecentLimit(t *testing.T)

func TestTelemetryGetLatest(t *testing.T) {
	if tdb == nil {
		t.SkipNow()
	}

	var (
		err error
		s   *model.TelemetrySample
	)

	if s, err = tdb.TelemetryGetLatest(sampleAsset); err != nil {
		t.Fatalf("Failed to load latest sample for Asset %s: %s",
			sampleAsset,
			err.Error())
	} else if s == nil {
		t.Fatalf("No latest sample for Asset %s", sampleAsset)
	} else if s.TS != "2026-08-27T10:07:00Z" {
		t.Errorf("Latest sample has unexpected timestamp %s",
			s.TS)
	}

	if s, err = tdb.TelemetryGetLatest("gt-100"); err != nil {
		t.Fatalf("Asking for the latest sample of an Asset without samples should not fail: %s",
			err.Error())
	} else if s != nil {
		t.Errorf("Asset gt-100 should not have any samples, got one at %s",
			s.TS)
	}
} // func TestTelemetryGetLatest(t *testing.T)

func TestTelemetryNullFields(t *testing.T) {
	if tdb == nil {
		t.SkipNow()
	}

	// Power, efficiency and NOx are all optional; they need to come
	// back as nil, not as 0.
	var (
		err error
		s   = &model.TelemetrySample{
			AssetID: "gt-100",
			TS:      "2026-08-27T11:00:00Z",
		}
	)

	if err = tdb.TelemetryAdd(s); err != nil {
		t.Fatalf("Cannot add sample without measurements: %s",
			err.Error())
	}

	var latest *model.TelemetrySample

	if latest, err = tdb.TelemetryGetLatest("gt-100"); err != nil {
		t.Fatalf("Failed to load latest sample for gt-100: %s",
			err.Error())
	} else if latest == nil {
		t.Fatal("No latest sample for gt-100")
	} else if latest.Power != nil || latest.Efficiency != nil || latest.NOx != nil {
		t.Errorf("Missing measurements should be nil: power %v, efficiency %v, NOx %v",
			latest.Power,
			latest.Efficiency,
			latest.NOx)
	}
} // func TestTelemetryNullFields(t *testing.T)
