// Package model defines the data structures shared by the tagcrawl packages.
//
// This package contains the following main types:
//   - Tag: A single taxonomy entry decoded from one API page
//   - Category: The Danbooru tag category enumeration
//   - RunResult: The outcome and statistics of one crawl run
//
// Models live in their own package so that the API client, the crawler,
// the history database and the report writers can share them without
// import cycles. RunResult is serializable to JSON for reports and storage.
package model
