// /home/krylon/go/src/github.com/blicero/plantwatch/settings/01_read_default_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 17. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-27 20:58:42 krylon>

package settings

import (
	"os"
	"testing"
	"time"

	"github.com/blicero/plantwatch/common"
)

func TestReadDefault(t *testing.T) {
	var (
		err  error
		path string
		cfg  *Settings
	)

	const (
		webPort      = 4711
		relayURL     = "http://sim:1880"
		relayTimeout = time.Second * 5
	)

	path = time.Now().Format("/tmp/plantwatch_test_cfg_20060102_150405.toml")

	defer os.Remove(path) // nolint: errcheck

	if cfg, err = Parse(path); err != nil {
		t.Fatalf("Error Parsing configuration file: %s",
			err.Error())
	} else if cfg == nil {
		t.Fatalf("Parse did not return an error, but no Settings, either")
	}

	if cfg.WebPort != webPort {
		t.Errorf("Unexpected WebPort %d (expect %d)",
			cfg.WebPort,
			webPort)
	}

	if cfg.RelayURL != relayURL {
		t.Errorf("Unexpected RelayURL %q (expect %q)",
			cfg.RelayURL,
			relayURL)
	}

	if cfg.RelayTimeout != relayTimeout {
		t.Errorf("Unexpected RelayTimeout: %s (expect %s)",
			cfg.RelayTimeout,
			relayTimeout)
	}
} // func TestReadDefault(t *testing.T)

func TestRelayEnvOverride(t *testing.T) {
	var (
		err  error
		path string
		cfg  *Settings
	)

	const override = "http://localhost:1880"

	path = time.Now().Format("/tmp/plantwatch_test_env_20060102_150405.toml")

	defer os.Remove(path) // nolint: errcheck

	t.Setenv(common.EnvRelayURL, override)

	if cfg, err = Parse(path); err != nil {
		t.Fatalf("Error Parsing configuration file: %s",
			err.Error())
	} else if cfg.RelayURL != override {
		t.Errorf("Environment did not override RelayURL: %q (expect %q)",
			cfg.RelayURL,
			override)
	}
} // func TestRelayEnvOverride(t *testing.T)
