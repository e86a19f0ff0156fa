package comet

// Wire shapes for the upstream's response JSON. Only the fields the parsers
// actually read are declared; everything else in the payloads is ignored.
// Optional subtrees are pointers so a missing branch reads as nil instead of
// a zero struct.

type textField struct {
	Text string `json:"text"`
}

type imageURI struct {
	URI string `json:"uri"`
}

type pageInfo struct {
	EndCursor   string `json:"end_cursor"`
	HasNextPage bool   `json:"has_next_page"`
}

type idNode struct {
	ID string `json:"id"`
}

// storyNode is the recurring story shape. It nests through comet_sections
// into more story nodes, so the same struct serves the outer post, the
// content carrier and the shared-post reflection.
type storyNode struct {
	ID            string         `json:"id"`
	PostID        string         `json:"post_id"`
	Actors        []actorNode    `json:"actors"`
	To            *audienceNode  `json:"to"`
	CometSections *storySections `json:"comet_sections"`
	AttachedStory *storyNode     `json:"attached_story"`
	Attachments   []struct {
		Styles *attachmentStyles `json:"styles"`
	} `json:"attachments"`
	StoryUFIContainer *ufiContainer `json:"story_ufi_container"`
}

type actorNode struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	URL            string    `json:"url"`
	ProfilePicture *imageURI `json:"profile_picture"`
}

type audienceNode struct {
	TypeName string `json:"__typename"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

type storySections struct {
	ContextLayout       *sectionStory     `json:"context_layout"`
	Content             *sectionStory     `json:"content"`
	Feedback            *sectionStory     `json:"feedback"`
	AttachedStory       *sectionStory     `json:"attached_story"`
	AttachedStoryLayout *sectionStory     `json:"attached_story_layout"`
	ActorPhoto          *sectionStory     `json:"actor_photo"`
	Title               *titleSection     `json:"title"`
	Metadata            []metadataSection `json:"metadata"`
	Message             *messageSection   `json:"message"`
	MessageSuffix       *suffixSection    `json:"message_suffix"`
}

type sectionStory struct {
	Story *storyNode `json:"story"`
}

type titleSection struct {
	Story *titleStory `json:"story"`
}

type titleStory struct {
	CometSections struct {
		Badge *struct {
			TypeName string `json:"__typename"`
		} `json:"badge"`
	} `json:"comet_sections"`
	Title *textField `json:"title"`
}

type metadataSection struct {
	TypeName string `json:"__typename"`
	Story    *struct {
		CreationTime    int64 `json:"creation_time"`
		UserSignalsInfo *struct {
			DisplayedUserSignals []struct {
				Title textField `json:"title"`
			} `json:"displayed_user_signals"`
		} `json:"user_signals_info"`
	} `json:"story"`
}

type messageSection struct {
	RichMessage []textField `json:"rich_message"`
	Story       *struct {
		Message textField `json:"message"`
	} `json:"story"`
}

type suffixSection struct {
	Story *struct {
		Suffix textField `json:"suffix"`
	} `json:"story"`
}

// ufiContainer wraps the reactions/comments/shares summary of a story.
type ufiContainer struct {
	Story struct {
		FeedbackContext struct {
			FeedbackTarget struct {
				SummaryRenderer struct {
					Feedback feedbackNode `json:"feedback"`
				} `json:"comet_ufi_summary_and_actions_renderer"`
			} `json:"feedback_target_with_context"`
		} `json:"feedback_context"`
	} `json:"story"`
}

type feedbackNode struct {
	ID                       string        `json:"id"`
	TopReactions             reactionEdges `json:"top_reactions"`
	CommentRenderingInstance *struct {
		Comments struct {
			TotalCount int `json:"total_count"`
		} `json:"comments"`
	} `json:"comment_rendering_instance"`
	ShareCount struct {
		Count int `json:"count"`
	} `json:"share_count"`
	VideoViewCount *int64 `json:"video_view_count"`
}

type reactionEdges struct {
	Edges []reactionEdge `json:"edges"`
}

type reactionEdge struct {
	ReactionCount int    `json:"reaction_count"`
	Node          idNode `json:"node"`
}

type attachmentStyles struct {
	TypeName   string `json:"__typename"`
	Attachment struct {
		Media             *mediaNode        `json:"media"`
		Target            *attachmentTarget `json:"target"`
		Description       *textField        `json:"description"`
		FivePhotos        *subattachments   `json:"five_photos_subattachments"`
		AllSubattachments *subattachments   `json:"all_subattachments"`
		LinkRenderer      *struct {
			Attachment struct {
				WebLink struct {
					URL string `json:"url"`
				} `json:"web_link"`
			} `json:"attachment"`
		} `json:"story_attachment_link_renderer"`
	} `json:"attachment"`
}

type subattachments struct {
	Count int `json:"count"`
	Nodes []struct {
		Media mediaNode `json:"media"`
	} `json:"nodes"`
}

type attachmentTarget struct {
	Name             string `json:"name"`
	DayTimeSentence  string `json:"capitalized_day_time_sentence"`
	PollQuestionText string `json:"poll_question_text"`
	OrderedOptions   *struct {
		Nodes []pollOptionNode `json:"nodes"`
	} `json:"orderedOptions"`
}

type pollOptionNode struct {
	Text          string `json:"text"`
	ProfileVoters struct {
		Count int `json:"count"`
	} `json:"profile_voters"`
}

type mediaNode struct {
	TypeName             string         `json:"__typename"`
	ID                   string         `json:"id"`
	Image                *imageURI      `json:"image"`
	PhotoImage           *imageURI      `json:"photo_image"`
	PlaceholderImage     *imageURI      `json:"placeholder_image"`
	ViewerImage          *imageURI      `json:"viewer_image"`
	AccessibilityCaption string         `json:"accessibility_caption"`
	Label                string         `json:"label"`
	Owner                idNode         `json:"owner"`
	VideoDelivery        *videoDelivery `json:"videoDeliveryLegacyFields"`
	VideoGridRenderer    *struct {
		Video struct {
			VideoDelivery videoDelivery `json:"videoDeliveryLegacyFields"`
		} `json:"video"`
	} `json:"video_grid_renderer"`
	ContainerStory *idNode `json:"container_story"`
}

type videoDelivery struct {
	HDURL string `json:"browser_native_hd_url"`
	SDURL string `json:"browser_native_sd_url"`
}

// url prefers the HD rendition and falls back to SD.
func (v videoDelivery) url() string {
	if v.HDURL != "" {
		return v.HDURL
	}
	return v.SDURL
}

type commentNode struct {
	LegacyFBID  string          `json:"legacy_fbid"`
	Depth       int             `json:"depth"`
	CreatedTime int64           `json:"created_time"`
	Author      commentAuthor   `json:"author"`
	Body        *textField      `json:"body"`
	Feedback    commentFeedback `json:"feedback"`
	Attachments []struct {
		StyleTypeRenderer *attachmentStyles `json:"style_type_renderer"`
	} `json:"attachments"`
	IdentityBadges []struct {
		Serialized string `json:"serialized"`
	} `json:"discoverable_identity_badges_web"`
}

type commentAuthor struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	URL            string   `json:"url"`
	IsVerified     bool     `json:"is_verified"`
	ProfilePicture imageURI `json:"profile_picture_depth_0"`
}

type commentFeedback struct {
	ID            string `json:"id"`
	ExpansionInfo struct {
		ExpansionToken string `json:"expansion_token"`
	} `json:"expansion_info"`
	RepliesFields struct {
		TotalCount int `json:"total_count"`
	} `json:"replies_fields"`
	TopReactions      reactionEdges       `json:"top_reactions"`
	RepliesConnection *commentsConnection `json:"replies_connection"`
}

type commentsConnection struct {
	Edges []struct {
		Node commentNode `json:"node"`
	} `json:"edges"`
	PageInfo pageInfo `json:"page_info"`
}

// --- per-operation response envelopes ---

type profileHeaderResponse struct {
	Data struct {
		User *struct {
			ProfileHeaderRenderer struct {
				User profileHeaderUser `json:"user"`
			} `json:"profile_header_renderer"`
		} `json:"user"`
	} `json:"data"`
}

type profileHeaderUser struct {
	Name              string    `json:"name"`
	URL               string    `json:"url"`
	ShowVerifiedBadge bool      `json:"show_verified_badge_on_profile"`
	ProfilePicLarge   *imageURI `json:"profilePicLarge"`
	CoverPhoto        *struct {
		Photo struct {
			Image imageURI `json:"image"`
		} `json:"photo"`
	} `json:"cover_photo"`
	SocialContext *struct {
		Content []struct {
			Text textField `json:"text"`
		} `json:"content"`
	} `json:"profile_social_context"`
	PrivateSharingBundle struct {
		ControlModel *struct {
			PrivateSharingEnabled bool `json:"private_sharing_enabled"`
		} `json:"private_sharing_control_model_for_user"`
	} `json:"wem_private_sharing_bundle"`
}

type profileTilesResponse struct {
	Data struct {
		ProfileTileSections struct {
			Edges []struct {
				Node tileSection `json:"node"`
			} `json:"edges"`
		} `json:"profile_tile_sections"`
	} `json:"data"`
}

type tileSection struct {
	SectionType string `json:"profile_tile_section_type"`
	Views       struct {
		Nodes []struct {
			ViewStyleRenderer *struct {
				View struct {
					ProfileTileItems struct {
						Nodes []struct {
							Node tileItem `json:"node"`
						} `json:"nodes"`
					} `json:"profile_tile_items"`
				} `json:"view"`
			} `json:"view_style_renderer"`
		} `json:"nodes"`
	} `json:"profile_tile_views"`
}

type tileItem struct {
	TimelineContextItem struct {
		Renderer *struct {
			ContextItem contextItem `json:"context_item"`
		} `json:"renderer"`
		ListItemType string `json:"timeline_context_list_item_type"`
	} `json:"timeline_context_item"`
}

type contextItem struct {
	Title struct {
		Text   string `json:"text"`
		Ranges []struct {
			Entity struct {
				URL string `json:"url"`
			} `json:"entity"`
		} `json:"ranges"`
	} `json:"title"`
	Subtitle *textField `json:"subtitle"`
}

type feedConnection struct {
	Edges []struct {
		Node *storyNode `json:"node"`
	} `json:"edges"`
}

type timelineHeadResponse struct {
	Data struct {
		User struct {
			DelegatePage *struct {
				BestDescription *textField `json:"best_description"`
			} `json:"delegate_page"`
			TimelineUnits *feedConnection `json:"timeline_list_feed_units"`
		} `json:"user"`
	} `json:"data"`
}

type timelineRefetchResponse struct {
	Data struct {
		Node struct {
			TimelineUnits *feedConnection `json:"timeline_list_feed_units"`
		} `json:"node"`
	} `json:"data"`
}

// deferredDoc is the shape of the trailing labeled documents of a feed
// response: either one more story or the authoritative page info.
type deferredDoc struct {
	Data struct {
		Node     *storyNode `json:"node"`
		PageInfo *pageInfo  `json:"page_info"`
	} `json:"data"`
}

type groupRootResponse struct {
	Data struct {
		Group *struct {
			ProfileHeaderRenderer struct {
				Group groupHeader `json:"group"`
			} `json:"profile_header_renderer"`
		} `json:"group"`
	} `json:"data"`
}

type groupHeader struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	CoverRenderer struct {
		CoverPhotoContent *struct {
			Photo struct {
				Image imageURI `json:"image"`
			} `json:"photo"`
		} `json:"cover_photo_content"`
	} `json:"cover_renderer"`
	MemberProfiles struct {
		FormattedCountText string `json:"formatted_count_text"`
	} `json:"group_member_profiles"`
}

type groupLayoutResponse struct {
	Data struct {
		DiscussionTabCards []struct {
			Group groupPanel `json:"group"`
		} `json:"comet_discussion_tab_cards"`
	} `json:"data"`
}

type groupPanel struct {
	Description textField `json:"description_with_entities"`
	PrivacyInfo struct {
		Label textField `json:"label"`
	} `json:"privacy_info"`
	Locations []struct {
		Name string `json:"name"`
	} `json:"group_locations"`
}

type groupRefetchResponse struct {
	Data struct {
		Node struct {
			GroupFeed *feedConnection `json:"group_feed"`
		} `json:"node"`
	} `json:"data"`
}

type albumResponse struct {
	Data struct {
		Album *struct {
			ID    string          `json:"id"`
			Title textField       `json:"title"`
			Media mediaConnection `json:"media"`
		} `json:"album"`
	} `json:"data"`
}

type albumPageResponse struct {
	Data struct {
		Node struct {
			Media mediaConnection `json:"media"`
		} `json:"node"`
	} `json:"data"`
}

type mediaConnection struct {
	Edges []struct {
		Node mediaNode `json:"node"`
	} `json:"edges"`
	PageInfo pageInfo `json:"page_info"`
}

type photoRootResponse struct {
	Data struct {
		CurrMedia *mediaNode `json:"currMedia"`
	} `json:"data"`
}

type reelResponse struct {
	Data struct {
		Video *struct {
			CreationStory idNode `json:"creation_story"`
		} `json:"video"`
	} `json:"data"`
}

type postDialogResponse struct {
	Data struct {
		Node *storyNode `json:"node"`
	} `json:"data"`
}

type commentsListResponse struct {
	Data struct {
		Node struct {
			RenderingInstance struct {
				Comments commentsConnection `json:"comments"`
			} `json:"comment_rendering_instance_for_feed_location"`
		} `json:"node"`
	} `json:"data"`
}

type repliesPageResponse struct {
	Data struct {
		Node struct {
			RepliesConnection commentsConnection `json:"replies_connection"`
		} `json:"node"`
	} `json:"data"`
}

type searchResponse struct {
	Data struct {
		SerpResponse struct {
			Results struct {
				Edges    []searchEdge `json:"edges"`
				PageInfo pageInfo     `json:"page_info"`
			} `json:"results"`
		} `json:"serpResponse"`
	} `json:"data"`
}

type searchEdge struct {
	Node struct {
		Role string `json:"role"`
	} `json:"node"`
	RenderingStrategy struct {
		ViewModel struct {
			Profile             *searchProfile `json:"profile"`
			DescriptionSnippets []textField    `json:"description_snippets_text_with_entities"`
			ClickModel          *struct {
				Story *storyNode `json:"story"`
			} `json:"click_model"`
			Story *storyNode `json:"story"`
		} `json:"view_model"`
	} `json:"rendering_strategy"`
}

type searchProfile struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	URL            string   `json:"url"`
	IsVerified     bool     `json:"is_verified"`
	ProfilePicture imageURI `json:"profile_picture"`
}
