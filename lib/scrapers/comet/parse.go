package comet

import (
	"encoding/json"
	"strings"

	"facet-backend/lib/codec"
)

const peopleURLPrefix = "https://www.facebook.com/people/"

func parseReactions(edges []reactionEdge, reactionIDs map[string]string) Reactions {
	reactions := Reactions{
		"like":  0,
		"love":  0,
		"care":  0,
		"haha":  0,
		"wow":   0,
		"sad":   0,
		"angry": 0,
	}
	total := 0
	for _, edge := range edges {
		// the total counts every edge, recognized or not
		total += edge.ReactionCount
		if kind, ok := reactionIDs[edge.Node.ID]; ok {
			reactions[kind] = edge.ReactionCount
		}
	}
	reactions["total"] = total
	return reactions
}

// commentUsername recovers a username from a comment author. Accounts with
// only a synthetic "people/" profile URL carry their numeric id inside the
// serialized identity badge instead.
func commentUsername(node *commentNode) string {
	author := node.Author
	if author.URL == "" {
		return ""
	}
	if strings.HasPrefix(author.URL, peopleURLPrefix) {
		if len(node.IdentityBadges) == 0 {
			return ""
		}
		var badge struct {
			ActorID string `json:"actor_id"`
		}
		if err := json.Unmarshal([]byte(node.IdentityBadges[0].Serialized), &badge); err != nil {
			return ""
		}
		return badge.ActorID
	}
	return codec.URLBasename(author.URL)
}

func (s *Session) parseComment(node *commentNode) Comment {
	comment := Comment{
		ID:         node.LegacyFBID,
		FeedbackID: node.Feedback.ID,
		Author: User{
			ID:         node.Author.ID,
			Username:   commentUsername(node),
			Name:       node.Author.Name,
			PictureURL: node.Author.ProfilePicture.URI,
			Verified:   node.Author.IsVerified,
		},
		ExpansionToken: node.Feedback.ExpansionInfo.ExpansionToken,
		IsReply:        node.Depth > 0,
		Time:           node.CreatedTime,
		RepliesCount:   node.Feedback.RepliesFields.TotalCount,
		Reactions:      parseReactions(node.Feedback.TopReactions.Edges, s.tables.Reactions),
	}

	if node.Body != nil {
		comment.Text = node.Body.Text
	}

	if len(node.Attachments) > 0 && node.Attachments[0].StyleTypeRenderer != nil {
		comment.Attachment = parseCommentAttachment(node.Attachments[0].StyleTypeRenderer)
	}

	return comment
}

func parseCommentAttachment(styles *attachmentStyles) Attachment {
	media := styles.Attachment.Media

	switch styles.TypeName {
	case "StoryAttachmentPhotoStyleRenderer":
		if media == nil || media.Image == nil {
			return Unsupported{}
		}
		return Photo{
			ID:      media.ID,
			URL:     media.Image.URI,
			AltText: media.AccessibilityCaption,
		}
	case "StoryAttachmentVideoStyleRenderer":
		if media == nil || media.VideoDelivery == nil {
			return Unsupported{}
		}
		return Video{
			ID:  media.ID,
			URL: media.VideoDelivery.url(),
		}
	case "StoryAttachmentAnimatedImageShareStyleRenderer":
		if media == nil || media.VideoDelivery == nil {
			return Unsupported{}
		}
		return AnimatedImage{URL: media.VideoDelivery.url()}
	case "StoryAttachmentStickerStyleRenderer",
		"StoryAttachmentStickerAvatarStyleRenderer":
		if media == nil || media.Image == nil {
			return Unsupported{}
		}
		return Photo{
			URL:     media.Image.URI,
			AltText: media.Label,
		}
	case "StoryAttachmentFallbackStyleRenderer":
		return nil
	default:
		return Unsupported{}
	}
}
