// Package table provides the row-oriented storage behind Strongroom's
// metadata tables: note key metadata, vault entries, and locked folders.
//
// A table is described by a Schema (a name, a spreadsheet file name, and a
// header row) and opened through Open with one of two backends:
//
//   - "xlsx" stores each table as its own workbook in the data directory,
//     with the header in the first row and one record per following row.
//     Every write re-saves the workbook through a temporary file and rename.
//   - "sqlite" stores every table in a single strongroom.db database, one
//     SQL table per schema with a text column per header cell.
//
// Both backends address data rows by a 1-based index that excludes the
// header, in insertion order. Inside a process, writes to the same table are
// serialised; there is no cross-process locking.
package table
