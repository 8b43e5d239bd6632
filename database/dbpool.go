// /home/krylon/go/src/github.com/blicero/plantwatch/database/dbpool.go
// -*- mode: go; coding: utf-8; -*-
// Created on 12. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-27 19:12:28 krylon>

package database

import (
	"log"
	"sync"

	"github.com/blicero/plantwatch/common"
	"github.com/blicero/plantwatch/logdomain"
)

// Pool is a fixed-size pool of database connections, so the web server's
// handlers do not have to open and close a connection per request.
type Pool struct {
	lock sync.Mutex
	cond *sync.Cond
	log  *log.Logger
	free []*Database
}

// NewPool opens the given number of database connections and returns the
// Pool containing them.
func NewPool(cnt int) (*Pool, error) {
	var (
		err  error
		pool = &Pool{
			free: make([]*Database, 0, cnt),
		}
	)

	pool.cond = sync.NewCond(&pool.lock)

	if pool.log, err = common.GetLogger(logdomain.DBPool); err != nil {
		return nil, err
	}

	for i := 0; i < cnt; i++ {
		var db *Database

		if db, err = Open(common.DbPath); err != nil {
			pool.log.Printf("[ERROR] Cannot open database at %s: %s\n",
				common.DbPath,
				err.Error())
			return nil, err
		}

		pool.free = append(pool.free, db)
	}

	return pool, nil
} // func NewPool(cnt int) (*Pool, error)

// Get returns a database connection from the Pool. If none is available,
// it blocks until one is returned by another goroutine.
func (pool *Pool) Get() *Database {
	pool.lock.Lock()
	defer pool.lock.Unlock()

	for len(pool.free) == 0 {
		pool.cond.Wait()
	}

	var db = pool.free[len(pool.free)-1]
	pool.free = pool.free[:len(pool.free)-1]

	return db
} // func (pool *Pool) Get() *Database

// Put returns a database connection to the Pool.
func (pool *Pool) Put(db *Database) {
	pool.lock.Lock()
	pool.free = append(pool.free, db)
	pool.cond.Signal()
	pool.lock.Unlock()
} // func (pool *Pool) Put(db *Database)

// IsEmpty returns true if no connection is currently available.
func (pool *Pool) IsEmpty() bool {
	pool.lock.Lock()
	var empty = len(pool.free) == 0
	pool.lock.Unlock()
	return empty
} // func (pool *Pool) IsEmpty() bool

// Close closes all connections currently in the Pool.
func (pool *Pool) Close() error {
	pool.lock.Lock()
	defer pool.lock.Unlock()

	var err error

	for _, db := range pool.free {
		if err = db.Close(); err != nil {
			pool.log.Printf("[ERROR] Cannot close database connection: %s\n",
				err.Error())
			return err
		}
	}

	pool.free = pool.free[:0]
	return nil
} // func (pool *Pool) Close() error
