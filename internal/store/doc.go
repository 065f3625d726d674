// Package store provides SQLite-backed durable storage for bidding runs.
//
// The store is an append-only decision log:
//   - Runs: one record per batch run, pinned to the system's table hash
//   - Decisions: one record per interpreted call within a run's boards
//
// Ordering within a board uses the call sequence number, never wall
// time, so reading a run back always reproduces the auctions exactly.
// Writes are idempotent: re-inserting an existing (run, board, seq)
// decision is silently ignored, which makes interrupted runs resumable.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// Run tokens are UUIDv7 so lexical order tracks creation order. System
// hashes come from rules.Hash over the canonical table serialization.
package store
