// Package danbooru provides a client for the Danbooru tag listing API.
//
// The client fetches one page of tags per call and decodes it leniently:
// an item with a missing or wrongly typed post_count or category does not
// fail the page, it decodes to the sentinels defined in the model package.
// Only a non-2xx status or a body that is not a JSON array is an error.
//
// # Usage
//
//	client, err := danbooru.NewClient(danbooru.WithUserAgent("tagcrawl/1.0"))
//	tags, err := client.FetchPage(ctx, 1)
//
// Requests can be routed through a SOCKS5 proxy with WithProxy.
package danbooru
