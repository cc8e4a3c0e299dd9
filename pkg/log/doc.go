/*
Package log provides structured logging for the graph storage core using zerolog.

The log package wraps zerolog to provide JSON-structured or console logging with
component-specific child loggers and helper functions for the handful of logging
patterns the core actually needs. All logs include timestamps and support filtering
by severity level.

# Architecture

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │            Global Logger                    │          │
	│  │  - zerolog.Logger instance                  │          │
	│  │  - Initialized via log.Init()               │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Configuration                     │          │
	│  │  - Level: debug/info/warn/error             │          │
	│  │  - Format: JSON or console (human)          │          │
	│  │  - Output: stdout, file, or custom writer   │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │         Component Loggers                   │          │
	│  │  - WithComponent("catalog")                 │          │
	│  │  - WithTxnID(txnID)                         │          │
	│  │  - WithClassID(classID)                     │          │
	│  │  - WithRecordID(classID, positionID)        │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Usage

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true, Output: os.Stdout})

	txnLog := log.WithTxnID(txn.ID())
	txnLog.Debug().Str("mode", "read_write").Msg("transaction started")

	catLog := log.WithComponent("catalog")
	catLog.Info().Str("class", "Person").Msg("class created")
	catLog.Error().Err(err).Msg("commit failed")

# Log Levels

Debug is for per-operation tracing (cursor positioning, overlay application);
Info marks schema mutations and commits/rollbacks; Warn marks recoverable
contention (write-slot already held, lock-file retry); Error marks a usage or
storage error surfaced to the caller; Fatal is reserved for invariant violations
per the three-way error partition in gderrors and terminates the process.

# Integration Points

This package is imported by pkg/catalog, pkg/record, pkg/kv, pkg/txnmgr,
pkg/gderrors, pkg/graphdb, and cmd/graphdbctl. None of those packages call
fmt.Println or the standard log package directly — every message goes
through here so log level and output format are controlled from one place.
pkg/relation, pkg/secindex, and pkg/query do not log. Of the three, only
pkg/query reports through pkg/metrics (traversal counts and visited-set
sizes); pkg/relation and pkg/secindex record no metrics.

# Best Practices

Do use a component or transaction-scoped child logger rather than the bare
global Logger wherever a call carries a natural key (a txn id, a class id).
Don't log full record payloads at Info level — property values may be
arbitrary caller data; log the RecordId and property count instead.
*/
package log
