// Package ingest implements the batched CSV seed-ingestion pipeline.
//
// A run validates the file, loads every row into memory, partitions the
// rows into fixed-size batches, and processes each batch inside a single
// database transaction. Memory is O(file size) on purpose: callers cap
// realistic file sizes, and whole-file loading keeps row numbering and
// progress reporting trivial.
//
// # Error taxonomy
//
//   - File-level: missing file, unreadable file, missing header columns.
//     Fatal to the run; reported once, no batches attempted.
//   - Row-level: empty tracking number, unparseable quantity or price, or a
//     persistence error scoped to one row. Recorded as a string, the row
//     contributes zero creations, and processing continues.
//   - Batch-level: a transaction that fails to commit is rolled back
//     wholesale and replaced by one synthetic "Batch N failed" error.
//   - Run-level: anything else is converted to a failed report with a
//     "Task failed" message. Run never returns an error or panics through.
//
// # Known quirks, kept deliberately
//
// A row whose numeric fields fail to parse is reported as an error, but its
// shipment may already have been created inside the batch transaction; the
// shipment persists when the batch commits. Likewise the synthetic
// batch-failure number is derived as startIndex/len(batch)+1, which
// mis-numbers a short final batch. Both behaviors are long-standing and
// message-stable; downstream consumers parse these strings.
package ingest
