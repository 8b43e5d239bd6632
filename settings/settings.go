// /home/krylon/go/src/github.com/blicero/plantwatch/settings/settings.go
// -*- mode: go; coding: utf-8; -*-
// Created on 13. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-27 19:26:40 krylon>

// Package settings deals with the configuration file. Duh.
package settings

import (
	"fmt"
	"os"
	"time"

	"github.com/blicero/krylib"
	"github.com/blicero/plantwatch/common"
	"github.com/pelletier/go-toml"
)

const defaultConfig = `
# Time-stamp: <>
[Global]
Debug = true

[Web]
Port = 4711

[Relay]
URL = "http://sim:1880"
Timeout = 5
`

// Settings defines several configurable parameters used throughout the application.
type Settings struct {
	WebPort      int64
	RelayURL     string
	RelayTimeout time.Duration
	Debug        bool
}

// Parse reads the configuration file at the given path.
// If path is an empty string, it uses the global default path.
// The relay URL can be overridden via the environment
// (common.EnvRelayURL), that wins over the file.
func Parse(path string) (*Settings, error) {
	if path == "" {
		path = common.CfgPath
	}

	var (
		err  error
		ok   bool
		cfg  *Settings
		tree *toml.Tree
	)

	if ok, err = krylib.Fexists(path); err != nil {
		return nil, err
	} else if !ok {
		if err = createDefaultConfig(path); err != nil {
			return nil, err
		}
	}

	if tree, err = toml.LoadFile(path); err != nil {
		return nil, err
	}

	cfg = new(Settings)

	cfg.WebPort = tree.Get("Web.Port").(int64)
	cfg.RelayURL = tree.Get("Relay.URL").(string)
	cfg.RelayTimeout = time.Duration(tree.Get("Relay.Timeout").(int64)) * time.Second
	cfg.Debug = tree.Get("Global.Debug").(bool)

	if env := os.Getenv(common.EnvRelayURL); env != "" {
		cfg.RelayURL = env
	}

	return cfg, nil
} // func Parse(path string) (*Settings, error)

func createDefaultConfig(path string) error {
	var (
		err     error
		written int
		fh      *os.File
	)

	if fh, err = os.Create(path); err != nil {
		return err
	}

	defer fh.Close()

	if written, err = fh.WriteString(defaultConfig); err != nil {
		return err
	} else if written != len(defaultConfig) {
		err = fmt.Errorf("Unexpected number of bytes written to config file: %d (expected %d)",
			written,
			len(defaultConfig))
		return err
	}

	return nil
} // func createDefaultConfig(path string) error
