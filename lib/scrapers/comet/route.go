package comet

import (
	"context"
	"encoding/json"
	"fmt"

	"facet-backend/lib/codec"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// the navigation endpoint prefixes its JSON with a constant anti-hijack
// guard ("for (;;);") that has to be sliced off before decoding
const navigationGuardLen = 9

type navigationEnvelope struct {
	Payload struct {
		Payload struct {
			Result *navigationResult `json:"result"`
		} `json:"payload"`
	} `json:"payload"`
}

type navigationResult struct {
	Type           string            `json:"type"`
	RedirectResult *navigationResult `json:"redirect_result"`
	Exports        *routeExports     `json:"exports"`
}

// routeExports is the kind-specific identity payload of a resolved route.
// Which of the props fields is populated depends on the entity type tag.
type routeExports struct {
	EntityKeyConfig struct {
		EntityType struct {
			Value string `json:"value"`
		} `json:"entity_type"`
	} `json:"entityKeyConfig"`
	RootView struct {
		Props routeProps `json:"props"`
	} `json:"rootView"`
}

type routeProps struct {
	UserID  string `json:"userID"`
	GroupID string `json:"groupID"`
	StoryID string `json:"storyID"`
	PageID  string `json:"pageID"`
	VideoID string `json:"v"`
}

// entity type tags returned by route resolution
const (
	entityProfile   = "profile"
	entityGroup     = "group"
	entityPost      = "post"
	entityVideos    = "videos"
	entityGroupPost = "group_post"
)

// resolveRoute maps a human-facing path (a username, a permalink, a group
// token) to the identity of whatever entity the upstream thinks lives
// there. A nil exports return means the path did not resolve; callers must
// still check the entity type tag against what they expect, because the
// upstream happily resolves lookalike paths to unrelated entity kinds.
//
// When the route is a redirect marker, followRedirect decides between
// resolving to the redirect target and treating the path as unresolved.
func (s *Session) resolveRoute(ctx context.Context, path string, followRedirect bool) (*routeExports, string, error) {
	ctx, span := tracer.Start(ctx, "resolveRoute")
	defer span.End()
	span.SetAttributes(attribute.KeyValue{
		Key:   "path",
		Value: attribute.StringValue(path),
	})

	if entry, ok := s.cache.get(ctx, path, followRedirect); ok {
		span.SetStatus(codes.Ok, "CACHE HIT")
		return entry.Exports, entry.EntityType, nil
	}

	res, err := s.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"route_url":   path,
			"__a":         "1",
			"__comet_req": "15",
			"lsd":         s.lsd,
		}).
		Post("/ajax/navigation/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, "", err
	}

	body := res.Body()
	if len(body) <= navigationGuardLen {
		return nil, "", fmt.Errorf("%w: navigation body too short", ErrInvalidResponse)
	}
	var envelope navigationEnvelope
	if err := json.Unmarshal(body[navigationGuardLen:], &envelope); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse navigation payload")
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	result := envelope.Payload.Payload.Result
	if result == nil || (result.Type == "" && result.Exports == nil) {
		return nil, "", nil
	}
	if result.Type == "route_redirect" {
		if !followRedirect {
			return nil, "", nil
		}
		result = result.RedirectResult
		if result == nil {
			return nil, "", nil
		}
	}
	if result.Exports == nil {
		return nil, "", nil
	}

	entityType := result.Exports.EntityKeyConfig.EntityType.Value
	s.cache.put(ctx, path, followRedirect, routeEntry{
		Exports:    result.Exports,
		EntityType: entityType,
	})
	return result.Exports, entityType, nil
}

// ResolveWatch resolves a watch video id into the local path of the post
// that hosts it, via the upstream's own redirect.
func (s *Session) ResolveWatch(ctx context.Context, videoID string) (string, error) {
	return s.resolveRedirect(ctx, "/watch", map[string]string{"v": videoID})
}

// ResolveShare resolves an opaque share token path into the local path it
// points at.
func (s *Session) ResolveShare(ctx context.Context, path string) (string, error) {
	return s.resolveRedirect(ctx, "/share/"+path, nil)
}

func (s *Session) resolveRedirect(ctx context.Context, path string, query map[string]string) (string, error) {
	ctx, span := tracer.Start(ctx, "resolveRedirect")
	defer span.End()

	req := s.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	res, err := req.Get(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return "", err
	}
	if res.StatusCode() != 302 {
		return "", ErrNotFound
	}
	location := res.Header().Get("Location")
	if location == "" {
		return "", ErrNotFound
	}
	return codec.StripHost(location), nil
}
