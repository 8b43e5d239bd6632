// /home/krylon/go/src/github.com/blicero/plantwatch/main.go
// -*- mode: go; coding: utf-8; -*-
// Created on 14. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-27 20:11:26 krylon>

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/blicero/plantwatch/common"
	"github.com/blicero/plantwatch/relay"
	"github.com/blicero/plantwatch/settings"
	"github.com/blicero/plantwatch/web"
)

func main() {
	fmt.Printf("%s %s - %s\n",
		common.AppName,
		common.Version,
		common.BuildStamp.Format(common.TimestampFormat))

	var (
		err     error
		addr    string
		cfgPath string
		cfg     *settings.Settings
		rc      *relay.Client
		srv     *web.Server
	)

	flag.StringVar(&addr, "addr", "", "Address for the web interface to listen on")
	flag.StringVar(&cfgPath, "config", "", "Path of the configuration file")

	flag.Parse()

	if err = common.InitApp(); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Error initializing application environment: %s\n",
			err.Error())
		os.Exit(1)
	}

	if cfg, err = settings.Parse(cfgPath); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Error reading configuration: %s\n",
			err.Error())
		os.Exit(1)
	}

	if addr == "" {
		addr = fmt.Sprintf("[::]:%d", cfg.WebPort)
	}

	if rc, err = relay.New(cfg.RelayURL, cfg.RelayTimeout); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Error creating relay client for %s: %s\n",
			cfg.RelayURL,
			err.Error())
		os.Exit(1)
	}

	if srv, err = web.Create(addr, rc); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Error creating web interface on %s: %s\n",
			addr,
			err.Error())
		os.Exit(1)
	}

	srv.Run()
} // func main()
