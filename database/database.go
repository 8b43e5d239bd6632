// /home/krylon/go/src/github.com/blicero/plantwatch/database/database.go
// -*- mode: go; coding: utf-8; -*-
// Created on 11. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-27 19:05:44 krylon>

package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/blicero/krylib"
	"github.com/blicero/plantwatch/common"
	"github.com/blicero/plantwatch/database/query"
	"github.com/blicero/plantwatch/logdomain"
	"github.com/blicero/plantwatch/model"
	_ "github.com/mattn/go-sqlite3" // Import the database driver
)

var (
	openLock sync.Mutex
	idCnt    int64
)

// ErrTxInProgress indicates that an attempt to initiate a transaction failed
// because there is already one in progress.
var ErrTxInProgress = errors.New("A Transaction is already in progress")

// ErrNoTxInProgress indicates that an attempt was made to finish a
// transaction when none was active.
var ErrNoTxInProgress = errors.New("There is no transaction in progress")

// ErrInvalidValue indicates that one or more parameters passed to a method
// had values that are invalid for that operation.
var ErrInvalidValue = errors.New("Invalid value for parameter")

// ErrObjectNotFound indicates that an Object was not found in the database.
var ErrObjectNotFound = errors.New("object was not found in database")

// If a query returns an error and the error text is matched by this regex, we
// consider the error as transient and try again after a short delay.
var retryPat = regexp.MustCompile("(?i)database is (?:locked|busy)")

// worthARetry returns true if an error returned from the database
// is matched by the retryPat regex.
func worthARetry(e error) bool {
	return retryPat.MatchString(e.Error())
} // func worthARetry(e error) bool

// retryDelay is the amount of time we wait before we repeat a database
// operation that failed due to a transient error.
const retryDelay = 25 * time.Millisecond

func waitForRetry() {
	time.Sleep(retryDelay)
} // func waitForRetry()

// Database is the storage backend.
//
// It is not safe to share a Database instance between goroutines, however
// opening multiple connections to the same Database is safe.
type Database struct {
	id      int64
	db      *sql.DB
	tx      *sql.Tx
	log     *log.Logger
	path    string
	queries map[query.ID]*sql.Stmt
}

// Open opens a Database. If the database specified by the path does not exist,
// yet, it is created, initialized, and seeded with the demo Assets.
func Open(path string) (*Database, error) {
	var (
		err      error
		dbExists bool
		db       = &Database{
			path:    path,
			queries: make(map[query.ID]*sql.Stmt),
		}
	)

	openLock.Lock()
	defer openLock.Unlock()
	idCnt++
	db.id = idCnt

	if db.log, err = common.GetLogger(logdomain.Database); err != nil {
		return nil, err
	} else if common.Debug {
		db.log.Printf("[DEBUG] Open database %s\n", path)
	}

	var connstring = fmt.Sprintf("%s?_locking=NORMAL&_journal=WAL&_fk=1&recursive_triggers=0",
		path)

	if dbExists, err = krylib.Fexists(path); err != nil {
		db.log.Printf("[ERROR] Failed to check if %s already exists: %s\n",
			path,
			err.Error())
		return nil, err
	} else if db.db, err = sql.Open("sqlite3", connstring); err != nil {
		db.log.Printf("[ERROR] Failed to open %s: %s\n",
			path,
			err.Error())
		return nil, err
	}

	if !dbExists {
		if err = db.initialize(); err != nil {
			var e2 error
			if e2 = db.db.Close(); e2 != nil {
				db.log.Printf("[CRITICAL] Failed to close database: %s\n",
					e2.Error())
				return nil, e2
			} else if e2 = os.Remove(path); e2 != nil {
				db.log.Printf("[CRITICAL] Failed to remove database file %s: %s\n",
					db.path,
					e2.Error())
			}
			return nil, err
		}
		db.log.Printf("[INFO] Database at %s has been initialized\n",
			path)
	}

	return db, nil
} // func Open(path string) (*Database, error)

func (db *Database) initialize() error {
	var err error
	var tx *sql.Tx

	if common.Debug {
		db.log.Printf("[DEBUG] Initialize fresh database at %s\n",
			db.path)
	}

	if tx, err = db.db.Begin(); err != nil {
		db.log.Printf("[ERROR] Cannot begin transaction: %s\n",
			err.Error())
		return err
	}

	for _, q := range qinit {
		db.log.Printf("[TRACE] Execute init query:\n%s\n",
			q)
		if _, err = tx.Exec(q); err != nil {
			db.log.Printf("[ERROR] Cannot execute init query: %s\n%s\n",
				err.Error(),
				q)
			if rbErr := tx.Rollback(); rbErr != nil {
				db.log.Printf("[CANTHAPPEN] Cannot rollback transaction: %s\n",
					rbErr.Error())
				return rbErr
			}
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		db.log.Printf("[CANTHAPPEN] Failed to commit init transaction: %s\n",
			err.Error())
		return err
	}

	return nil
} // func (db *Database) initialize() error

// Close closes the database.
// If there is a pending transaction, it is rolled back.
func (db *Database) Close() error {
	var err error

	if db.tx != nil {
		if err = db.tx.Rollback(); err != nil {
			db.log.Printf("[CRITICAL] Cannot roll back pending transaction: %s\n",
				err.Error())
			return err
		}
		db.tx = nil
	}

	for key, stmt := range db.queries {
		if err = stmt.Close(); err != nil {
			db.log.Printf("[CRITICAL] Cannot close statement handle %s: %s\n",
				key,
				err.Error())
			return err
		}
		delete(db.queries, key)
	}

	if err = db.db.Close(); err != nil {
		db.log.Printf("[CRITICAL] Cannot close database: %s\n",
			err.Error())
	}

	db.db = nil
	return nil
} // func (db *Database) Close() error

func (db *Database) getQuery(id query.ID) (*sql.Stmt, error) {
	var (
		stmt  *sql.Stmt
		found bool
		err   error
	)

	if stmt, found = db.queries[id]; found {
		return stmt, nil
	} else if _, found = qdb[id]; !found {
		return nil, fmt.Errorf("Unknown Query %d",
			id)
	}

	db.log.Printf("[TRACE] Prepare query %s\n", id)

PREPARE_QUERY:
	if stmt, err = db.db.Prepare(qdb[id]); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto PREPARE_QUERY
		}

		db.log.Printf("[ERROR] Cannot parse query %s: %s\n%s\n",
			id,
			err.Error(),
			qdb[id])
		return nil, err
	}

	db.queries[id] = stmt
	return stmt, nil
} // func (db *Database) getQuery(query.ID) (*sql.Stmt, error)

// PerformMaintenance performs some maintenance operations on the database.
// It cannot be called while a transaction is in progress and will block
// pretty much all access to the database while it is running.
func (db *Database) PerformMaintenance() error {
	var mQueries = []string{
		"PRAGMA wal_checkpoint(TRUNCATE)",
		"VACUUM",
		"REINDEX",
		"ANALYZE",
	}
	var err error

	if db.tx != nil {
		return ErrTxInProgress
	}

	for _, q := range mQueries {
		if _, err = db.db.Exec(q); err != nil {
			db.log.Printf("[ERROR] Failed to execute %s: %s\n",
				q,
				err.Error())
		}
	}

	return nil
} // func (db *Database) PerformMaintenance() error

// Begin begins an explicit database transaction.
// Only one transaction can be in progress at once, attempting to start one,
// while another transaction is already in progress will yield ErrTxInProgress.
func (db *Database) Begin() error {
	var err error

	db.log.Printf("[DEBUG] Database#%d Begin Transaction\n",
		db.id)

	if db.tx != nil {
		return ErrTxInProgress
	}

BEGIN_TX:
	for db.tx == nil {
		if db.tx, err = db.db.Begin(); err != nil {
			if worthARetry(err) {
				waitForRetry()
				continue BEGIN_TX
			} else {
				db.log.Printf("[ERROR] Failed to start transaction: %s\n",
					err.Error())
				return err
			}
		}
	}

	return nil
} // func (db *Database) Begin() error

// Rollback terminates a pending transaction, undoing any changes to the
// database made during that transaction.
// If no transaction is active, it returns ErrNoTxInProgress
func (db *Database) Rollback() error {
	var err error

	db.log.Printf("[DEBUG] Database#%d Roll back Transaction\n",
		db.id)

	if db.tx == nil {
		return ErrNoTxInProgress
	} else if err = db.tx.Rollback(); err != nil {
		return fmt.Errorf("Cannot roll back database transaction: %s",
			err.Error())
	}

	db.tx = nil

	return nil
} // func (db *Database) Rollback() error

// Commit ends the active transaction, making any changes made during that
// transaction permanent and visible to other connections.
// If no transaction is active, it returns ErrNoTxInProgress
func (db *Database) Commit() error {
	var err error

	db.log.Printf("[DEBUG] Database#%d Commit Transaction\n",
		db.id)

	if db.tx == nil {
		return ErrNoTxInProgress
	} else if err = db.tx.Commit(); err != nil {
		return fmt.Errorf("Cannot commit transaction: %s",
			err.Error())
	}

	db.tx = nil
	return nil
} // func (db *Database) Commit() error

// AssetAdd adds an Asset to the Database. If an Asset with the same ID
// already exists, nothing happens - the first write wins, there is no
// update path for Assets.
func (db *Database) AssetAdd(a *model.Asset) error {
	const qid query.ID = query.AssetAdd
	var (
		err  error
		stmt *sql.Stmt
	)

	if a.ID == "" {
		return ErrInvalidValue
	} else if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Failed to prepare query %s: %s\n",
			qid,
			err.Error())
		panic(err)
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var status = a.Status
	if status == "" {
		status = model.StatusOK
	}

EXEC_QUERY:
	if _, err = stmt.Exec(a.ID, a.Name, a.Lat, a.Lng, status); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		} else {
			err = fmt.Errorf("Cannot add Asset %s to database: %w",
				a.ID,
				err)
			db.log.Printf("[ERROR] %s\n", err.Error())
			return err
		}
	}

	return nil
} // func (db *Database) AssetAdd(a *model.Asset) error

// AssetGetAll loads all Assets from the Database, ordered by ID.
func (db *Database) AssetGetAll() ([]*model.Asset, error) {
	const qid query.ID = query.AssetGetAll
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return nil, err
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var rows *sql.Rows

EXEC_QUERY:
	if rows, err = stmt.Query(); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		return nil, err
	}

	defer rows.Close() // nolint: errcheck,gosec
	var assets = make([]*model.Asset, 0)

	for rows.Next() {
		var (
			lat, lng sql.NullFloat64
			a        = new(model.Asset)
		)

		if err = rows.Scan(&a.ID, &a.Name, &lat, &lng, &a.Status); err != nil {
			var ex = fmt.Errorf("Failed to scan row: %w", err)
			db.log.Printf("[ERROR] %s\n", ex.Error())
			return nil, ex
		}

		if lat.Valid {
			a.Lat = &lat.Float64
		}
		if lng.Valid {
			a.Lng = &lng.Float64
		}

		assets = append(assets, a)
	}

	return assets, nil
} // func (db *Database) AssetGetAll() ([]*model.Asset, error)

// AssetGetByID loads the Asset with the given ID (if it exists).
func (db *Database) AssetGetByID(id string) (*model.Asset, error) {
	const qid query.ID = query.AssetGetByID
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return nil, err
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var rows *sql.Rows

EXEC_QUERY:
	if rows, err = stmt.Query(id); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		return nil, err
	}

	defer rows.Close() // nolint: errcheck,gosec

	if rows.Next() {
		var (
			lat, lng sql.NullFloat64
			a        = &model.Asset{ID: id}
		)

		if err = rows.Scan(&a.Name, &lat, &lng, &a.Status); err != nil {
			var ex = fmt.Errorf("Failed to scan row: %w", err)
			db.log.Printf("[ERROR] %s\n", ex.Error())
			return nil, ex
		}

		if lat.Valid {
			a.Lat = &lat.Float64
		}
		if lng.Valid {
			a.Lng = &lng.Float64
		}

		return a, nil
	}

	return nil, nil
} // func (db *Database) AssetGetByID(id string) (*model.Asset, error)

// TelemetryAdd appends a TelemetrySample to the Database. Samples are
// append-only, they are never updated or deleted.
func (db *Database) TelemetryAdd(s *model.TelemetrySample) error {
	const qid query.ID = query.TelemetryAdd
	var (
		err  error
		stmt *sql.Stmt
	)

	if s.AssetID == "" || s.TS == "" {
		return ErrInvalidValue
	} else if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Failed to prepare query %s: %s\n",
			qid,
			err.Error())
		panic(err)
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var rows *sql.Rows

EXEC_QUERY:
	if rows, err = stmt.Query(s.AssetID, s.TS, s.Power, s.Efficiency, s.NOx); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		} else {
			err = fmt.Errorf("Cannot add TelemetrySample for Asset %s to database: %w",
				s.AssetID,
				err)
			db.log.Printf("[ERROR] %s\n", err.Error())
			return err
		}
	} else {
		var id int64

		defer rows.Close()

		if !rows.Next() {
			// CANTHAPPEN
			db.log.Printf("[ERROR] Query %s did not return a value\n",
				qid)
			return fmt.Errorf("Query %s did not return a value", qid)
		} else if err = rows.Scan(&id); err != nil {
			var ex = fmt.Errorf("Failed to get ID for newly added sample for Asset %s: %w",
				s.AssetID,
				err)
			db.log.Printf("[ERROR] %s\n", ex.Error())
			return ex
		}

		s.ID = id
		return nil
	}
} // func (db *Database) TelemetryAdd(s *model.TelemetrySample) error

// TelemetryGetRecent loads the cnt most recent TelemetrySamples for the
// given Asset, ordered by their timestamp strings, and returns them in
// chronological (i.e. ascending) order.
//
// Ordering compares the caller-supplied timestamp strings, not the
// insertion order, so this only works out if the ingesting side supplies
// sortable timestamps.
func (db *Database) TelemetryGetRecent(assetID string, cnt int) ([]*model.TelemetrySample, error) {
	const qid query.ID = query.TelemetryGetRecent
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return nil, err
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var rows *sql.Rows

EXEC_QUERY:
	if rows, err = stmt.Query(assetID, cnt); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		return nil, err
	}

	defer rows.Close() // nolint: errcheck,gosec
	var samples = make([]*model.TelemetrySample, 0, 16)

	for rows.Next() {
		var (
			power, eff, nox sql.NullFloat64
			s               = &model.TelemetrySample{AssetID: assetID}
		)

		if err = rows.Scan(&s.ID, &s.TS, &power, &eff, &nox); err != nil {
			var ex = fmt.Errorf("Failed to scan row: %w", err)
			db.log.Printf("[ERROR] %s\n", ex.Error())
			return nil, ex
		}

		if power.Valid {
			s.Power = &power.Float64
		}
		if eff.Valid {
			s.Efficiency = &eff.Float64
		}
		if nox.Valid {
			s.NOx = &nox.Float64
		}

		samples = append(samples, s)
	}

	slices.Reverse(samples)

	return samples, nil
} // func (db *Database) TelemetryGetRecent(assetID string, cnt int) ([]*model.TelemetrySample, error)

// TelemetryGetLatest loads the single most recent TelemetrySample for the
// given Asset. If no sample exists, it returns nil - that is not an error.
func (db *Database) TelemetryGetLatest(assetID string) (*model.TelemetrySample, error) {
	const qid query.ID = query.TelemetryGetLatest
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return nil, err
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var rows *sql.Rows

EXEC_QUERY:
	if rows, err = stmt.Query(assetID); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		return nil, err
	}

	defer rows.Close() // nolint: errcheck,gosec

	if rows.Next() {
		var (
			power, eff, nox sql.NullFloat64
			s               = &model.TelemetrySample{AssetID: assetID}
		)

		if err = rows.Scan(&s.ID, &s.TS, &power, &eff, &nox); err != nil {
			var ex = fmt.Errorf("Failed to scan row: %w", err)
			db.log.Printf("[ERROR] %s\n", ex.Error())
			return nil, ex
		}

		if power.Valid {
			s.Power = &power.Float64
		}
		if eff.Valid {
			s.Efficiency = &eff.Float64
		}
		if nox.Valid {
			s.NOx = &nox.Float64
		}

		return s, nil
	}

	return nil, nil
} // func (db *Database) TelemetryGetLatest(assetID string) (*model.TelemetrySample, error)

// CommandAdd adds a Command to the Database. The Params payload is
// serialized to JSON text for storage.
func (db *Database) CommandAdd(c *model.Command) error {
	const qid query.ID = query.CommandAdd
	var (
		err  error
		stmt *sql.Stmt
	)

	if c.ID == "" || c.AssetID == "" || c.Cmd == "" {
		return ErrInvalidValue
	} else if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Failed to prepare query %s: %s\n",
			qid,
			err.Error())
		panic(err)
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var buf []byte

	if c.Params == nil {
		buf = []byte("{}")
	} else if buf, err = json.Marshal(c.Params); err != nil {
		err = fmt.Errorf("Cannot serialize Params of Command %s: %w",
			c.ID,
			err)
		db.log.Printf("[ERROR] %s\n", err.Error())
		return err
	}

EXEC_QUERY:
	if _, err = stmt.Exec(c.ID, c.UserName, c.AssetID, c.Cmd, string(buf), c.RequestedTS, c.Status, c.Note); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		} else {
			err = fmt.Errorf("Cannot add Command %s to database: %w",
				c.ID,
				err)
			db.log.Printf("[ERROR] %s\n", err.Error())
			return err
		}
	}

	return nil
} // func (db *Database) CommandAdd(c *model.Command) error

// CommandSetStatus updates the status of the Command with the given ID.
// Updating a Command that does not exist is a silent no-op - it gets
// logged, but it is not an error. (Whether that is wise is a different
// question, but it is the documented behavior.)
func (db *Database) CommandSetStatus(id, status string) error {
	const qid query.ID = query.CommandSetStatus
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Failed to prepare query %s: %s\n",
			qid,
			err.Error())
		panic(err)
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var (
		res         sql.Result
		numAffected int64
	)

EXEC_QUERY:
	if res, err = stmt.Exec(status, id); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		} else {
			err = fmt.Errorf("Cannot update status of Command %s: %w",
				id,
				err)
			db.log.Printf("[ERROR] %s\n", err.Error())
			return err
		}
	} else if numAffected, err = res.RowsAffected(); err != nil {
		err = fmt.Errorf("Failed to query result for number of affected rows: %w",
			err)
		db.log.Printf("[ERROR] %s\n", err.Error())
		return err
	} else if numAffected != 1 {
		db.log.Printf("[ERROR] Update status of Command %s affected 0 rows\n",
			id)
	}

	return nil
} // func (db *Database) CommandSetStatus(id, status string) error

// CommandGetByID loads a Command by its ID, if it exists.
// The stored Params text is decoded back into structured data; if that
// fails, the raw text is returned instead - a Command with unreadable
// Params is still better than no Command at all.
func (db *Database) CommandGetByID(id string) (*model.Command, error) {
	const qid query.ID = query.CommandGetByID
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return nil, err
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var rows *sql.Rows

EXEC_QUERY:
	if rows, err = stmt.Query(id); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		return nil, err
	}

	defer rows.Close() // nolint: errcheck,gosec

	if rows.Next() {
		var (
			pstr   string
			params map[string]any
			c      = &model.Command{ID: id}
		)

		if err = rows.Scan(&c.UserName, &c.AssetID, &c.Cmd, &pstr, &c.RequestedTS, &c.Status, &c.Note); err != nil {
			var ex = fmt.Errorf("Failed to scan row: %w", err)
			db.log.Printf("[ERROR] %s\n", ex.Error())
			return nil, ex
		}

		if err = json.Unmarshal([]byte(pstr), &params); err != nil {
			db.log.Printf("[DEBUG] Params of Command %s are not valid JSON, returning them raw: %s\n",
				id,
				err.Error())
			c.Params = pstr
		} else {
			c.Params = params
		}

		return c, nil
	}

	return nil, nil
} // func (db *Database) CommandGetByID(id string) (*model.Command, error)
