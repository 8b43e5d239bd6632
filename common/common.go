// /home/krylon/go/src/github.com/blicero/plantwatch/common/common.go
// -*- mode: go; coding: utf-8; -*-
// Created on 10. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-27 17:40:12 krylon>

// Package common provides constants and utility functions used throughout
// the application.
package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blicero/krylib"
	"github.com/blicero/plantwatch/logdomain"
	"github.com/hashicorp/logutils"
)

// Debug indicates whether to emit additional log messages and perform
// additional sanity checks.
const Debug = true

// AppName is the name of the application.
const AppName = "PlantWatch"

// Version is the version number.
const Version = "0.1.0"

// TimestampFormat is the format string used to render timestamps.
const TimestampFormat = "2006-01-02 15:04:05"

// DefaultPort is the port the web interface listens on unless told otherwise.
const DefaultPort = 4711

// EnvRelayURL names the environment variable that overrides the address of
// the external command relay.
const EnvRelayURL = "PLANTWATCH_RELAY_URL"

// BuildStamp marks the time the application was built.
var BuildStamp = time.Unix(1786287600, 0)

// LogLevels are the valid log levels, in ascending order of severity.
var LogLevels = []logutils.LogLevel{
	"TRACE",
	"DEBUG",
	"INFO",
	"WARNING",
	"ERROR",
	"CRITICAL",
	"CANTHAPPEN",
	"SILENT",
}

var minLogLevel logutils.LogLevel = "TRACE"

// Paths of the application's files. SetBaseDir adjusts all of them in one go.
var (
	BaseDir = filepath.Join(
		os.Getenv("HOME"),
		fmt.Sprintf(".%s.d", strings.ToLower(AppName)))
	LogPath = filepath.Join(BaseDir, strings.ToLower(AppName)+".log")
	DbPath  = filepath.Join(BaseDir, strings.ToLower(AppName)+".db")
	CfgPath = filepath.Join(BaseDir, strings.ToLower(AppName)+".toml")
)

// SetBaseDir sets the BaseDir and related paths and initializes the
// directory if necessary. Mainly useful for testing.
func SetBaseDir(path string) error {
	BaseDir = path
	LogPath = filepath.Join(BaseDir, strings.ToLower(AppName)+".log")
	DbPath = filepath.Join(BaseDir, strings.ToLower(AppName)+".db")
	CfgPath = filepath.Join(BaseDir, strings.ToLower(AppName)+".toml")

	return InitApp()
} // func SetBaseDir(path string) error

// InitApp creates the application's base directory if it does not exist.
func InitApp() error {
	var (
		err error
		ex  bool
	)

	if ex, err = krylib.Fexists(BaseDir); err != nil {
		return fmt.Errorf("Cannot check if BaseDir %s exists: %w",
			BaseDir,
			err)
	} else if !ex {
		if err = os.MkdirAll(BaseDir, 0755); err != nil {
			return fmt.Errorf("Cannot create BaseDir %s: %w",
				BaseDir,
				err)
		}
	}

	return nil
} // func InitApp() error

// GetLogger returns a Logger for the given subsystem.
func GetLogger(dom logdomain.ID) (*log.Logger, error) {
	var (
		err     error
		fh      *os.File
		logName = fmt.Sprintf("%s.%s ", AppName, dom)
	)

	if err = InitApp(); err != nil {
		return nil, err
	}

	if !Debug {
		minLogLevel = "INFO"
	}

	if fh, err = os.OpenFile(LogPath, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0644); err != nil {
		return nil, fmt.Errorf("Cannot open log file %s: %w",
			LogPath,
			err)
	}

	var filter = &logutils.LevelFilter{
		Levels:   LogLevels,
		MinLevel: minLogLevel,
		Writer:   io.MultiWriter(os.Stdout, fh),
	}

	return log.New(filter, logName, log.Ldate|log.Ltime|log.Lshortfile), nil
} // func GetLogger(dom logdomain.ID) (*log.Logger, error)
