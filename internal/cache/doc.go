// Package cache provides small generic caching primitives shared by
// the text and layout subsystems: a doubly-linked LRU list and a
// soft-limited map cache keyed by access recency.
package cache
