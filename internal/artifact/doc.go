// Package artifact writes the line-oriented tag file consumed by the
// autocomplete extension.
//
// The file is truncated when created and written one page at a time. Each
// page is flushed to stable storage before WritePage returns, and a page
// that fails part way is cut back out of the file, so a crash, interrupt
// or write error leaves a prefix of complete pages on disk.
package artifact
