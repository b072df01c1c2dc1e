// Package database stores the history of crawl runs in SQLite.
//
// Every run of the crawl command, whatever its outcome, is recorded as one
// row of the runs table in tagcrawl.db under the XDG data directory. The
// history is only read by the history command; a crawl never consults it.
//
// The database uses modernc.org/sqlite, a CGO-free driver, in WAL mode with
// a single connection.
package database
