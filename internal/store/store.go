// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/audience-controller/internal/logging"
)

const (
	keyDeclaredViewers    = "viewership:declared_viewers"
	keyLastKnownTVState   = "viewership:last_known_tv_state"
	keyGuestsRegistered   = "guest_registration:guests_registered"
	keyClearedForAud      = "guest_registration:cleared_for_aud"
	keyAbsent             = "guest_registration:absent"
	keyBrightnessLevel    = "guest_registration:brightness_level"
	keyInInstallationMode = "guest_registration:in_installation_mode"
)

// GuestEntry is the on-disk shape of a registered guest: a
// [position, identity] pair (spec §4.2).
type GuestEntry struct {
	Position string `json:"position"`
	Identity string `json:"identity"`
}

// Row is the full set of persisted fields; Save writes all seven rows on
// every call.
type Row struct {
	DeclaredViewers    []string
	LastKnownTVState   bool
	GuestsRegistered   []GuestEntry
	ClearedForAud      string
	Absent             bool
	BrightnessLevel    int
	InInstallationMode bool
}

// Store is the Controller's BadgerDB-backed persistent row store.
type Store struct {
	db *badger.DB
}

// Open opens (creating if absent) the BadgerDB database at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open badger at %q: %w", path, err)
	}
	logging.Info().Str("path", path).Msg("persistent store opened")
	return &Store{db: db}, nil
}

// OpenInMemory opens an in-memory BadgerDB instance, for tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open in-memory badger: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the persisted Row. Fields for rows never written default to
// their zero value, matching a fresh-install boot with no prior state.
func (s *Store) Load() (*Row, error) {
	row := &Row{}
	err := s.db.View(func(txn *badger.Txn) error {
		if v, ok, err := getString(txn, keyDeclaredViewers); err != nil {
			return err
		} else if ok {
			if err := json.Unmarshal([]byte(v), &row.DeclaredViewers); err != nil {
				return fmt.Errorf("decode %s: %w", keyDeclaredViewers, err)
			}
		}

		if v, ok, err := getString(txn, keyLastKnownTVState); err != nil {
			return err
		} else if ok {
			row.LastKnownTVState = v == "1"
		}

		if v, ok, err := getString(txn, keyGuestsRegistered); err != nil {
			return err
		} else if ok {
			if err := json.Unmarshal([]byte(v), &row.GuestsRegistered); err != nil {
				return fmt.Errorf("decode %s: %w", keyGuestsRegistered, err)
			}
		}

		if v, ok, err := getString(txn, keyClearedForAud); err != nil {
			return err
		} else if ok {
			row.ClearedForAud = v
		}

		if v, ok, err := getString(txn, keyAbsent); err != nil {
			return err
		} else if ok {
			row.Absent = v == "1"
		}

		if v, ok, err := getString(txn, keyBrightnessLevel); err != nil {
			return err
		} else if ok {
			var n int
			if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
				return fmt.Errorf("decode %s: %w", keyBrightnessLevel, err)
			}
			row.BrightnessLevel = n
		}

		if v, ok, err := getString(txn, keyInInstallationMode); err != nil {
			return err
		} else if ok {
			row.InInstallationMode = v == "true"
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: load: %w", err)
	}
	return row, nil
}

// Save persists every row in a single Badger transaction. Badger
// transactions are ACID, so this satisfies "crash-safe for single-row
// writes" (spec §4.2) for all rows at once without a distributed
// transaction protocol.
func (s *Store) Save(row *Row) error {
	declared, err := json.Marshal(row.DeclaredViewers)
	if err != nil {
		return fmt.Errorf("store: encode declared viewers: %w", err)
	}
	guests, err := json.Marshal(row.GuestsRegistered)
	if err != nil {
		return fmt.Errorf("store: encode guests registered: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(keyDeclaredViewers), declared); err != nil {
			return err
		}
		if err := txn.Set([]byte(keyLastKnownTVState), []byte(boolStr(row.LastKnownTVState))); err != nil {
			return err
		}
		if err := txn.Set([]byte(keyGuestsRegistered), guests); err != nil {
			return err
		}
		if err := txn.Set([]byte(keyClearedForAud), []byte(row.ClearedForAud)); err != nil {
			return err
		}
		if err := txn.Set([]byte(keyAbsent), []byte(boolStr(row.Absent))); err != nil {
			return err
		}
		if err := txn.Set([]byte(keyBrightnessLevel), []byte(fmt.Sprintf("%d", row.BrightnessLevel))); err != nil {
			return err
		}
		return txn.Set([]byte(keyInInstallationMode), []byte(trueFalse(row.InInstallationMode)))
	})
	if err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	return nil
}

func getString(txn *badger.Txn, key string) (string, bool, error) {
	item, err := txn.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	var out string
	err = item.Value(func(val []byte) error {
		out = string(val)
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return out, true, nil
}

func boolStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func trueFalse(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
