package comet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// feature-flag variables the upstream expects on every query; none of them
// change the data this package reads
var relayProviders = map[string]any{
	"__relay_internal__pv__ProfileCometHeaderPrimaryActionBar_passesCometProfileDirectoryGKrelayprovider": false,
	"__relay_internal__pv__GHLShouldChangeAdIdFieldNamerelayprovider":                                     false,
	"__relay_internal__pv__GHLShouldChangeSponsoredDataFieldNamerelayprovider":                            false,
	"__relay_internal__pv__IsWorkUserrelayprovider":                                                       false,
	"__relay_internal__pv__FBReels_deprecate_short_form_video_context_gkrelayprovider":                    false,
	"__relay_internal__pv__CometImmersivePhotoCanUserDisable3DMotionrelayprovider":                        false,
	"__relay_internal__pv__WorkCometIsEmployeeGKProviderrelayprovider":                                    false,
	"__relay_internal__pv__IsMergQAPollsrelayprovider":                                                    false,
	"__relay_internal__pv__FBReelsMediaFooter_comet_enable_reels_ads_gkrelayprovider":                     false,
	"__relay_internal__pv__CometUFIReactionsEnableShortNamerelayprovider":                                 false,
	"__relay_internal__pv__CometUFIShareActionMigrationrelayprovider":                                     true,
	"__relay_internal__pv__CometUFI_dedicated_comment_routable_dialog_gkrelayprovider":                    false,
	"__relay_internal__pv__StoriesArmadilloReplyEnabledrelayprovider":                                     false,
	"__relay_internal__pv__FBReelsIFUTileContent_reelsIFUPlayOnHoverrelayprovider":                        false,
	"__relay_internal__pv__GroupsCometGroupChatLazyLoadLastMessageSnippetrelayprovider":                   false,
	"__relay_internal__pv__GroupsCometLazyLoadFeaturedSectionrelayprovider":                               false,
}

// document is one JSON document out of a newline-delimited response body.
// The first document of a response is authoritative; the rest are deferred
// fragments tagged with a label.
type document struct {
	raw   json.RawMessage
	label string
}

func (d document) decode(out any) error {
	return json.Unmarshal(d.raw, out)
}

type queryError struct {
	Message string `json:"message"`
}

// invoke runs one catalog operation against the graphql endpoint and splits
// the response into its documents. A tolerant invoke swallows the one known
// benign upstream error; everything else reported in the head document is a
// *ResponseError.
func (s *Session) invoke(ctx context.Context, operation string, variables map[string]any, tolerant bool) ([]document, error) {
	ctx, span := tracer.Start(ctx, "invoke:"+operation)
	defer span.End()

	merged := make(map[string]any, len(variables)+len(relayProviders))
	for k, v := range variables {
		merged[k] = v
	}
	for k, v := range relayProviders {
		merged[k] = v
	}
	encoded, err := json.Marshal(merged)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize variables")
		return nil, err
	}

	res, err := s.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"__a":         "1",
			"__comet_req": "15",
			"lsd":         s.lsd,
			"variables":   string(encoded),
			"doc_id":      s.tables.DocIDs[operation],
		}).
		Post("/api/graphql/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		rerr := &ResponseError{
			Operation: operation,
			Messages:  []string{fmt.Sprintf("upstream returned status %d", res.StatusCode())},
		}
		span.RecordError(rerr)
		span.SetStatus(codes.Error, "bad upstream status")
		return nil, rerr
	}

	var docs []document
	for _, line := range bytes.Split(res.Body(), []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var envelope struct {
			Label string `json:"label"`
		}
		if err := json.Unmarshal(line, &envelope); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse response document")
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, operation, err)
		}
		docs = append(docs, document{
			raw:   append(json.RawMessage(nil), line...),
			label: envelope.Label,
		})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s: empty response body", ErrInvalidResponse, operation)
	}
	span.SetAttributes(attribute.KeyValue{
		Key:   "documents",
		Value: attribute.IntValue(len(docs)),
	})

	var head struct {
		Errors []queryError `json:"errors"`
	}
	if err := json.Unmarshal(docs[0].raw, &head); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, operation, err)
	}
	if len(head.Errors) > 0 {
		if tolerant && strings.Contains(head.Errors[0].Message, s.tables.SuppressedError) {
			span.SetStatus(codes.Ok, "suppressed benign upstream error")
			return docs, nil
		}
		messages := make([]string, len(head.Errors))
		for i, e := range head.Errors {
			messages[i] = e.Message
		}
		rerr := &ResponseError{Operation: operation, Messages: messages}
		span.RecordError(rerr)
		span.SetStatus(codes.Error, "upstream reported query errors")
		return nil, rerr
	}

	return docs, nil
}

// nullable maps Go's empty string onto the JSON null the upstream expects
// for omitted cursors and focus ids.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
