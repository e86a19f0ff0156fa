package comet

import (
	"fmt"
	"strings"

	"facet-backend/lib/codec"
)

// parsePost normalizes one story node. Reshared stories show up as a nested
// reflection of the same shape; those are folded into SharedPost, one level
// deep at most.
func (s *Session) parsePost(node *storyNode) (Post, error) {
	if node.CometSections == nil ||
		node.CometSections.ContextLayout == nil ||
		node.CometSections.ContextLayout.Story == nil ||
		node.CometSections.Content == nil ||
		node.CometSections.Content.Story == nil {
		return Post{}, fmt.Errorf("%w: story node missing sections", ErrInvalidResponse)
	}
	header := node.CometSections.ContextLayout.Story.CometSections
	content := node.CometSections.Content.Story
	return s.buildPost(node, header, content, node, false)
}

// parseSharedPost digs the reflected story out of a resharing node. The
// reflection scatters its pieces: the header hangs off the outer node's
// attached story, the content sits several sections deep, and feedback stays
// on the outer node.
func (s *Session) parseSharedPost(node *storyNode) (Post, error) {
	if node.AttachedStory == nil ||
		node.AttachedStory.CometSections == nil ||
		node.AttachedStory.CometSections.ContextLayout == nil ||
		node.AttachedStory.CometSections.ContextLayout.Story == nil {
		return Post{}, fmt.Errorf("%w: reshare missing header", ErrInvalidResponse)
	}
	header := node.AttachedStory.CometSections.ContextLayout.Story.CometSections

	inner := node.CometSections.Content.Story
	if inner.CometSections == nil ||
		inner.CometSections.AttachedStory == nil ||
		inner.CometSections.AttachedStory.Story == nil ||
		inner.CometSections.AttachedStory.Story.AttachedStory == nil ||
		inner.CometSections.AttachedStory.Story.AttachedStory.CometSections == nil ||
		inner.CometSections.AttachedStory.Story.AttachedStory.CometSections.AttachedStoryLayout == nil ||
		inner.CometSections.AttachedStory.Story.AttachedStory.CometSections.AttachedStoryLayout.Story == nil {
		return Post{}, fmt.Errorf("%w: reshare missing content", ErrInvalidResponse)
	}
	content := inner.CometSections.AttachedStory.Story.AttachedStory.CometSections.AttachedStoryLayout.Story

	story := inner.AttachedStory
	if story == nil {
		return Post{}, fmt.Errorf("%w: reshare missing story", ErrInvalidResponse)
	}
	return s.buildPost(node, header, content, story, true)
}

// buildPost assembles a Post out of its three scattered carriers. The outer
// node always supplies the audience and the feedback summary, even for a
// reshare reflection.
func (s *Session) buildPost(outer *storyNode, header *storySections, content, story *storyNode, shared bool) (Post, error) {
	if header == nil || len(story.Actors) == 0 {
		return Post{}, fmt.Errorf("%w: story node missing author", ErrInvalidResponse)
	}
	author := story.Actors[0]

	post := Post{
		ID:     story.ID,
		PostID: story.PostID,
		Author: User{
			ID:   author.ID,
			Name: author.Name,
		},
	}
	if author.URL != "" {
		if strings.HasPrefix(author.URL, peopleURLPrefix) {
			// synthetic profile URLs hide the numeric id; it sits inside
			// the packed story id instead, after the "S:" prefix
			if decoded, err := codec.UnpackID(story.ID); err == nil && len(decoded) > 4 {
				post.Author.Username, _, _ = strings.Cut(decoded[4:], ":")
			}
		} else {
			post.Author.Username = codec.URLBasename(author.URL)
		}
	}
	if header.ActorPhoto != nil && header.ActorPhoto.Story != nil &&
		len(header.ActorPhoto.Story.Actors) > 0 &&
		header.ActorPhoto.Story.Actors[0].ProfilePicture != nil {
		post.Author.PictureURL = header.ActorPhoto.Story.Actors[0].ProfilePicture.URI
	}

	if to := outer.To; to != nil && to.TypeName == "Group" {
		post.FromGroup = &Group{
			ID:       to.ID,
			Username: codec.URLBasename(to.URL),
			Name:     to.Name,
		}
	}

	if header.Title != nil && header.Title.Story != nil {
		title := header.Title.Story
		if badge := title.CometSections.Badge; badge != nil {
			post.Author.Verified = badge.TypeName == "CometFeedUserVerifiedBadgeStrategy"
		}
		if title.Title != nil {
			post.Title = title.Title.Text
		}
	}

	var container *ufiContainer
	if outer.CometSections != nil && outer.CometSections.Feedback != nil &&
		outer.CometSections.Feedback.Story != nil {
		container = outer.CometSections.Feedback.Story.StoryUFIContainer
	}
	if container != nil {
		feedback := container.Story.FeedbackContext.FeedbackTarget.SummaryRenderer.Feedback
		post.Reactions = parseReactions(feedback.TopReactions.Edges, s.tables.Reactions)
		if feedback.CommentRenderingInstance != nil {
			post.CommentsCount = feedback.CommentRenderingInstance.Comments.TotalCount
		}
		post.ShareCount = feedback.ShareCount.Count
		post.FeedbackID = feedback.ID
		post.ViewCount = feedback.VideoViewCount
	} else {
		post.Reactions = parseReactions(nil, s.tables.Reactions)
	}

	if !shared && outer.AttachedStory != nil {
		sharedPost, err := s.parseSharedPost(outer)
		if err != nil {
			return Post{}, err
		}
		post.SharedPost = &sharedPost
	}

	for _, meta := range header.Metadata {
		switch meta.TypeName {
		case "CometFeedStoryLongerTimestampStrategy",
			"CometFeedStoryMinimizedTimestampStrategy":
			if meta.Story != nil {
				post.Time = meta.Story.CreationTime
			}
		case "CometStoryUserSignalsStrategy":
			if meta.Story != nil && meta.Story.UserSignalsInfo != nil {
				for _, signal := range meta.Story.UserSignalsInfo.DisplayedUserSignals {
					post.Roles = append(post.Roles, signal.Title.Text)
				}
			}
		}
	}

	var text []string
	if content.CometSections != nil {
		if message := content.CometSections.Message; message != nil {
			if len(message.RichMessage) > 0 {
				for _, part := range message.RichMessage {
					text = append(text, part.Text)
				}
			} else if message.Story != nil {
				text = append(text, message.Story.Message.Text)
			}
			if suffix := content.CometSections.MessageSuffix; suffix != nil && suffix.Story != nil {
				text = append(text, " --- "+suffix.Story.Suffix.Text)
			}
		}
	}

	if len(content.Attachments) > 0 && content.Attachments[0].Styles != nil {
		text = s.parsePostAttachment(&post, content.Attachments[0].Styles, author.ID, text)
	}
	post.Text = strings.Join(text, "\n")

	return post, nil
}

// parsePostAttachment appends the normalized attachment(s) of one style
// renderer onto the post. Link shares contribute to the text instead of the
// attachment list, so the running text slice threads through.
func (s *Session) parsePostAttachment(post *Post, styles *attachmentStyles, authorID string, text []string) []string {
	attachment := styles.Attachment
	media := attachment.Media

	switch styles.TypeName {
	case "StoryAttachmentPhotoStyleRenderer":
		if media == nil {
			post.Attachments = append(post.Attachments, Unsupported{})
			break
		}
		image := media.PlaceholderImage
		if media.PhotoImage != nil {
			image = media.PhotoImage
		}
		photo := Photo{
			ID:      media.ID,
			OwnerID: authorID,
			AltText: media.AccessibilityCaption,
		}
		if image != nil {
			photo.URL = image.URI
		}
		post.Attachments = append(post.Attachments, photo)

	case "StoryAttachmentVideoStyleRenderer":
		if media == nil || media.VideoDelivery == nil {
			post.Attachments = append(post.Attachments, Unsupported{})
			break
		}
		// outside groups, the public post id of a video post is the video
		// id itself
		if post.FromGroup == nil {
			post.PostID = media.ID
			post.IsVideo = true
		}
		post.Attachments = append(post.Attachments, Video{
			ID:      media.ID,
			URL:     media.VideoDelivery.url(),
			OwnerID: media.Owner.ID,
		})

	case "StoryAttachmentAlbumStyleRenderer",
		"StoryAttachmentAlbumFrameStyleRenderer",
		"StoryAttachmentAlbumColumnStyleRenderer":
		subs := attachment.AllSubattachments
		if attachment.FivePhotos != nil {
			subs = attachment.FivePhotos
		}
		if subs == nil {
			break
		}
		materialized := 0
		for _, sub := range subs.Nodes {
			switch sub.Media.TypeName {
			case "Photo":
				photo := Photo{
					ID:      sub.Media.ID,
					OwnerID: sub.Media.Owner.ID,
				}
				if sub.Media.ViewerImage != nil {
					photo.URL = sub.Media.ViewerImage.URI
				}
				post.Attachments = append(post.Attachments, photo)
			case "Video":
				video := Video{
					ID:      sub.Media.ID,
					OwnerID: sub.Media.Owner.ID,
				}
				if sub.Media.VideoGridRenderer != nil {
					video.URL = sub.Media.VideoGridRenderer.Video.VideoDelivery.url()
				}
				post.Attachments = append(post.Attachments, video)
			default:
				post.Attachments = append(post.Attachments, Unsupported{})
			}
			materialized++
		}
		if subs.Count > materialized {
			post.FilesLeft = subs.Count - materialized
		}

	case "StoryAttachmentShareStyleRenderer",
		"StoryAttachmentShareMediumStyleRenderer":
		if attachment.LinkRenderer != nil {
			text = append(text, attachment.LinkRenderer.Attachment.WebLink.URL)
		}

	case "StoryAttachmentEventStyleRenderer":
		if attachment.Target == nil {
			post.Attachments = append(post.Attachments, Unsupported{})
			break
		}
		event := Event{
			Name: attachment.Target.Name,
			Time: attachment.Target.DayTimeSentence,
		}
		if attachment.Description != nil {
			event.Description = attachment.Description.Text
		}
		post.Attachments = append(post.Attachments, event)

	case "StoryAttachmentProfileMediaStyleRenderer":
		if media == nil || media.Image == nil {
			post.Attachments = append(post.Attachments, Unsupported{})
			break
		}
		post.Attachments = append(post.Attachments, Photo{
			ID:  media.ID,
			URL: media.Image.URI,
		})

	case "StoryAttachmentAnimatedImageShareStyleRenderer":
		if media == nil || media.VideoDelivery == nil {
			post.Attachments = append(post.Attachments, Unsupported{})
			break
		}
		post.Attachments = append(post.Attachments, AnimatedImage{
			URL: media.VideoDelivery.url(),
		})
		// the upstream reports a bogus view count for animated images
		post.ViewCount = nil

	case "StoryAttachmentShareSevereStyleRenderer":
		// censored shares render nothing

	case "StoryAttachmentUnavailableStyleRenderer":
		post.Attachments = append(post.Attachments, Unavailable{})

	case "StoryAttachmentTextPollStyleRenderer":
		if attachment.Target == nil || attachment.Target.OrderedOptions == nil {
			post.Attachments = append(post.Attachments, Unsupported{})
			break
		}
		total := 0
		for _, option := range attachment.Target.OrderedOptions.Nodes {
			total += option.ProfileVoters.Count
		}
		options := make([]PollOption, 0, len(attachment.Target.OrderedOptions.Nodes))
		for _, option := range attachment.Target.OrderedOptions.Nodes {
			percent := 0
			if total > 0 {
				percent = option.ProfileVoters.Count * 100 / total
			}
			options = append(options, PollOption{
				Text:    option.Text,
				Votes:   option.ProfileVoters.Count,
				Percent: percent,
			})
		}
		post.VotersCount = &total
		post.Attachments = append(post.Attachments, Poll{
			Text:    attachment.Target.PollQuestionText,
			Total:   total,
			Options: options,
		})

	default:
		post.Attachments = append(post.Attachments, Unsupported{})
	}

	return text
}
