// Package main provides the entry point for the tagcrawl CLI.
//
// tagcrawl downloads the Danbooru tag list, keeps the popular tags of the
// enabled categories and writes them one per line to tags.csv, the
// suggestion source of the autocomplete extension.
//
// Usage:
//
//	tagcrawl crawl
//	tagcrawl crawl --min-post-count 100 --meta -o tags.csv
//	tagcrawl history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
