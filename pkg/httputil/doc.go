// Package httputil opens data sources for the loader.
//
// [Fetcher] implements table.Opener. Local paths are opened directly.
// http(s) URLs are downloaded with [Retry] on transient failures (network
// errors, 429 and 5xx responses) and the bytes are kept in a cache.Cache so
// repeated runs do not hit the server again until the entry expires:
//
//	f := httputil.NewFetcher(httputil.FetcherOptions{Cache: c, TTL: 24 * time.Hour})
//	adj, attrs, err := table.Load(ctx, f, sources, schema)
package httputil
