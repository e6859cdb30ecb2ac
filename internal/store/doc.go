// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store is the Controller's persistent row store (spec §4.2, §4.6).
//
// It keeps two logical keyspaces, "viewership" and "guest_registration",
// backed by a single embedded BadgerDB instance (github.com/dgraph-io/badger/v4)
// — the same embedded-KV library the teacher stack uses for its write-ahead
// log. Unlike that WAL, this store has no confirm/compaction lifecycle: it
// is a small, directly-read/written row store, crash-safe per individual
// row write, with no multi-row transaction requirement (spec §4.2).
//
// Row keys follow spec §4.2 verbatim:
//
//	viewership:declared_viewers      JSON array
//	viewership:last_known_tv_state   "0"/"1"
//	guest_registration:guests_registered   JSON array of [position, identity]
//	guest_registration:cleared_for_aud     string
//	guest_registration:absent              "0"/"1"
//	guest_registration:brightness_level    int string
//	guest_registration:in_installation_mode bool string
package store
