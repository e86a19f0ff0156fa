// Package comet extracts profiles, posts, groups, albums and search results
// out of the undocumented comet GraphQL endpoints on www.facebook.com and
// normalizes them into stable domain records.
//
// Every fetch runs on its own short-lived Session. The upstream was never
// designed for external consumption: each query returns its own shape,
// entity variants are tagged by embedded discriminator strings, deferred
// fragments arrive as extra trailing JSON documents in the same response
// body, and pagination state moves around between query families. The
// fetchers in this package absorb all of that and hand back plain structs.
package comet

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"facet-backend/lib/telemetry"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/comet")

var (
	// ErrNotFound means a route did not resolve, or resolved to a
	// different entity kind than the caller asked for.
	ErrNotFound = errors.New("entity not found")
	// ErrInvalidResponse means the upstream response omitted structure
	// this package treats as contractually required, such as the
	// page-info carrier of a feed response.
	ErrInvalidResponse = errors.New("invalid upstream response")
)

// ResponseError carries upstream-reported query errors (or a non-success
// transport status) together with the operation that hit them.
type ResponseError struct {
	Operation string
	Messages  []string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, strings.Join(e.Messages, ", "))
}

// Tables is a snapshot of upstream constants: the persisted-query document
// ids, the reaction-kind node ids, and the one benign error message some
// operations have to tolerate. The upstream rotates these on its own
// schedule, so they are configuration, not code; pass a replacement through
// SessionOptions when the defaults go stale.
type Tables struct {
	DocIDs          map[string]string `json:"doc_ids"`
	Reactions       map[string]string `json:"reactions"`
	SuppressedError string            `json:"suppressed_error"`
}

// DefaultTables returns the snapshot this package was built against.
func DefaultTables() Tables {
	return Tables{
		DocIDs: map[string]string{
			opProfileHeader:          "24637479539185522",
			opProfileAbout:           "29764188139896558",
			opProfileTimeline:        "24130362143235169",
			opProfileTimelineRefetch: "29857242777255325",
			opPostDialog:             "30329081383349461",
			opCommentsPagination:     "24152478804356082",
			opCommentsRoot:           "9884198138336503",
			opRepliesPagination:      "24355745037360129",
			opReelRoot:               "30094271533520445",
			opGroupRoot:              "24726713260250827",
			opGroupLayout:            "29803864032592554",
			opGroupFeed:              "23997107266592174",
			opGroupFeedRefetch:       "9755367644572581",
			opAlbum:                  "29989561257355685",
			opAlbumPagination:        "9782410388506700",
			opPhotoRoot:              "23916701474613206",
			opSearch:                 "23897855153159069",
		},
		Reactions: map[string]string{
			"1635855486666999": "like",
			"1678524932434102": "love",
			"613557422527858":  "care",
			"115940658764963":  "haha",
			"478547315650144":  "wow",
			"908563459236466":  "sad",
			"444813342392137":  "angry",
		},
		SuppressedError: "A server error field_exception occured.",
	}
}

const defaultBaseURL = "https://www.facebook.com"

// SessionOptions configures a Session. The zero value talks to the real
// upstream with the default tables and no route cache.
type SessionOptions struct {
	// BaseURL overrides the upstream origin, mainly for tests.
	BaseURL string
	// Tables overrides the upstream constant snapshot.
	Tables *Tables
	// Cache, when set, is used to memoize route resolutions.
	Cache *badger.DB
}

// Session is one scraping session against the upstream: an HTTP client
// pinned to a fixed browser identity, the anti-forgery token upstream
// expects to be echoed back, and the operation catalog. Sessions are cheap,
// not safe for reuse across logical fetches, and must be closed.
type Session struct {
	http   *resty.Client
	lsd    string
	tables Tables
	cache  routeCache
}

func NewSession(opts SessionOptions) (*Session, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	tables := DefaultTables()
	if opts.Tables != nil {
		tables = *opts.Tables
	}

	// the upstream fingerprints clients; this header set matches the
	// browser the doc-id catalog was captured from
	lsd := "_"
	client := resty.New()
	client.SetBaseURL(baseURL)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeaders(map[string]string{
		"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64; rv:139.0) Gecko/20100101 Firefox/139.0",
		"Accept":          "*/*",
		"Accept-Language": "en-US,en;q=0.5",
		"X-FB-LSD":        lsd,
		"Origin":          "https://www.facebook.com",
		"Alt-Used":        "www.facebook.com",
		"Connection":      "keep-alive",
		"Sec-Fetch-Dest":  "empty",
		"Sec-Fetch-Mode":  "cors",
		"Sec-Fetch-Site":  "same-origin",
		"TE":              "trailers",
	})
	// the upstream signals watch/share targets via 302s that must be
	// inspected, not followed
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	client.SetTimeout(time.Second * 15)

	telemetry.InstrumentResty(client, "scrapers/comet/http")

	return &Session{
		http:   client,
		lsd:    lsd,
		tables: tables,
		cache:  routeCache{db: opts.Cache, base: base},
	}, nil
}

// Close releases the session's transport resources. Safe to defer
// immediately after NewSession.
func (s *Session) Close() {
	s.http.GetClient().CloseIdleConnections()
}
