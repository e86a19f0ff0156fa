package comet

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/PuerkitoBio/purell"
	"github.com/dgraph-io/badger/v4"
)

// route resolutions go stale when the upstream reshuffles ids, so entries
// only live a few hours
const routeEntryTTL = time.Hour * 6

type routeEntry struct {
	Exports    *routeExports
	EntityType string
	ExpiresAt  time.Time
}

// routeCache memoizes route resolutions in badger. A nil db disables it.
type routeCache struct {
	db   *badger.DB
	base *url.URL
}

func (c routeCache) key(path string, followRedirect bool) []byte {
	normalized, err := purell.NormalizeURLString(
		c.base.JoinPath(path).String(),
		purell.FlagsUsuallySafeGreedy|purell.FlagRemoveDuplicateSlashes,
	)
	if err != nil {
		normalized = path
	}
	prefix := "route:0:"
	if followRedirect {
		prefix = "route:1:"
	}
	return []byte(prefix + normalized)
}

func (c routeCache) get(ctx context.Context, path string, followRedirect bool) (routeEntry, bool) {
	if c.db == nil {
		return routeEntry{}, false
	}
	_, span := tracer.Start(ctx, "routeCache.get")
	defer span.End()

	key := c.key(path, followRedirect)
	var entry routeEntry
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return routeEntry{}, false
	}
	if err != nil {
		span.RecordError(err)
		slog.Warn("failed to read route cache", "path", path, "err", err)
		return routeEntry{}, false
	}
	if time.Now().After(entry.ExpiresAt) {
		err := c.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(key)
		})
		if err != nil {
			slog.Warn("failed to evict expired route", "path", path, "err", err)
		}
		return routeEntry{}, false
	}
	return entry, true
}

func (c routeCache) put(ctx context.Context, path string, followRedirect bool, entry routeEntry) {
	if c.db == nil {
		return
	}
	_, span := tracer.Start(ctx, "routeCache.put")
	defer span.End()

	entry.ExpiresAt = time.Now().Add(routeEntryTTL)
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entry); err != nil {
		span.RecordError(err)
		slog.Warn("failed to encode route entry", "path", path, "err", err)
		return
	}
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(c.key(path, followRedirect), buf.Bytes())
	})
	if err != nil {
		span.RecordError(err)
		slog.Warn("failed to write route cache", "path", path, "err", err)
	}
}
