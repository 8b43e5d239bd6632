// /home/krylon/go/src/github.com/blicero/plantwatch/relay/relay.go
// -*- mode: go; coding: utf-8; -*-
// Created on 13. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-27 19:20:51 krylon>

// Package relay talks to the external control simulator that actually
// applies Commands to the (simulated) Assets.
package relay

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/blicero/plantwatch/common"
	"github.com/blicero/plantwatch/logdomain"
	"github.com/blicero/plantwatch/model"
)

// DefaultTimeout bounds the single outbound call per Command.
const DefaultTimeout = 5 * time.Second

// applyPath is the simulator's endpoint for applying a Command.
const applyPath = "/applyCommand"

// Client performs the outbound relay call. It makes exactly one attempt
// per Command - no retries, no backoff. Any kind of failure collapses
// into the FAILED status.
type Client struct {
	baseURL string
	log     *log.Logger
	web     http.Client
}

// New creates a Client talking to the simulator at the given base URL.
// A timeout of 0 means DefaultTimeout.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	var (
		err error
		c   = &Client{baseURL: baseURL}
	)

	if timeout == 0 {
		timeout = DefaultTimeout
	}

	c.web.Timeout = timeout

	if c.log, err = common.GetLogger(logdomain.Relay); err != nil {
		return nil, err
	}

	return c, nil
} // func New(baseURL string, timeout time.Duration) (*Client, error)

// Apply relays the Command with the given ID, merged with the payload the
// operator submitted, to the simulator and returns the resulting status.
//
// If the simulator's response carries no status field, the status is ACK.
// If anything at all goes wrong - connection refused, timeout, non-2xx
// response, garbage body - the status is FAILED. The caller does not get
// to see the difference, it is logged here and that is that.
func (c *Client) Apply(id string, payload map[string]any) string {
	var (
		err  error
		buf  []byte
		res  *http.Response
		body = make(map[string]any, len(payload)+1)
	)

	for k, v := range payload {
		body[k] = v
	}
	body["id"] = id

	if buf, err = json.Marshal(body); err != nil {
		c.log.Printf("[ERROR] Cannot serialize payload for Command %s: %s\n",
			id,
			err.Error())
		return model.StatusFailed
	}

	if common.Debug {
		c.log.Printf("[DEBUG] Relay Command %s to %s\n",
			id,
			c.baseURL+applyPath)
	}

	if res, err = c.web.Post(c.baseURL+applyPath, "application/json", bytes.NewReader(buf)); err != nil {
		c.log.Printf("[ERROR] Relay call for Command %s failed: %s\n",
			id,
			err.Error())
		return model.StatusFailed
	}

	defer res.Body.Close() // nolint: errcheck

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.log.Printf("[ERROR] Relay call for Command %s returned %s\n",
			id,
			res.Status)
		return model.StatusFailed
	}

	var reply struct {
		Status string `json:"status"`
	}

	if err = json.NewDecoder(res.Body).Decode(&reply); err != nil {
		c.log.Printf("[ERROR] Cannot parse relay response for Command %s: %s\n",
			id,
			err.Error())
		return model.StatusFailed
	} else if reply.Status == "" {
		return model.StatusAck
	}

	return reply.Status
} // func (c *Client) Apply(id string, payload map[string]any) string
