// Package memory provides minimal thread persistence.
//
// Persistence model:
//   - Threads are JSON files under one directory, keyed by thread id.
//   - Only text messages are stored (role + text). Tool blocks are transient.
package memory
