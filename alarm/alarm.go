// /home/krylon/go/src/github.com/blicero/plantwatch/alarm/alarm.go
// -*- mode: go; coding: utf-8; -*-
// Created on 12. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-27 18:01:09 krylon>

// Package alarm derives alarm conditions from telemetry samples.
package alarm

import (
	"github.com/blicero/plantwatch/model"
)

// Thresholds for the alarm rules. These are fixed, not configurable.
const (
	MinPower      = 0.5   // MW
	MinEfficiency = 38.0  // %
	MaxNOx        = 180.0 // ppm
)

// Evaluate checks the given sample - meant to be the most recent one for an
// Asset - against the alarm rules and returns the Alarms it raises, possibly
// none. Evaluate is a pure function, alarm state is never stored anywhere.
// A nil sample yields an empty slice, missing fields count as 0.
func Evaluate(s *model.TelemetrySample) []model.Alarm {
	var alarms = make([]model.Alarm, 0, 3)

	if s == nil {
		return alarms
	}

	var (
		power = fval(s.Power)
		eff   = fval(s.Efficiency)
		nox   = fval(s.NOx)
	)

	if power < MinPower {
		alarms = append(alarms, model.Alarm{
			TS:       s.TS,
			Type:     "POWER_LOW",
			Severity: "HIGH",
			Message:  "Electrical power below 0.5 MW",
		})
	}

	if eff < MinEfficiency {
		alarms = append(alarms, model.Alarm{
			TS:       s.TS,
			Type:     "EFFICIENCY_LOW",
			Severity: "MEDIUM",
			Message:  "Electrical efficiency below 38%",
		})
	}

	if nox > MaxNOx {
		alarms = append(alarms, model.Alarm{
			TS:       s.TS,
			Type:     "NOX_HIGH",
			Severity: "MEDIUM",
			Message:  "NOx above 180 ppm",
		})
	}

	return alarms
} // func Evaluate(s *model.TelemetrySample) []model.Alarm

func fval(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
} // func fval(f *float64) float64
