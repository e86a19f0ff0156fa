package comet

import "encoding/json"

// Reactions counts reactions by kind, plus a "total" entry that always sums
// every edge the upstream reported, including kinds this package does not
// recognize.
type Reactions map[string]int

// Attachment is one piece of post or comment media. Concrete variants
// marshal themselves with a "kind" tag so consumers can dispatch without
// reflection.
type Attachment interface {
	Kind() string
}

type Photo struct {
	ID      string `json:"id,omitempty"`
	URL     string `json:"url"`
	OwnerID string `json:"owner_id,omitempty"`
	AltText string `json:"alt_text,omitempty"`
}

type Video struct {
	ID           string `json:"id"`
	URL          string `json:"url,omitempty"`
	OwnerID      string `json:"owner_id,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

type AnimatedImage struct {
	URL string `json:"url"`
}

type Event struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Time        string `json:"time"`
}

type PollOption struct {
	Text    string `json:"text"`
	Votes   int    `json:"votes"`
	Percent int    `json:"percent"`
}

type Poll struct {
	Text    string       `json:"text"`
	Total   int          `json:"total"`
	Options []PollOption `json:"options"`
}

// Unavailable marks media the upstream acknowledges but refuses to serve.
type Unavailable struct{}

// Unsupported marks an attachment variant this package has no mapping for.
type Unsupported struct{}

func (Photo) Kind() string         { return "photo" }
func (Video) Kind() string         { return "video" }
func (AnimatedImage) Kind() string { return "animated_image" }
func (Event) Kind() string         { return "event" }
func (Poll) Kind() string          { return "poll" }
func (Unavailable) Kind() string   { return "unavailable" }
func (Unsupported) Kind() string   { return "unsupported" }

func taggedMarshal(kind string, v any) ([]byte, error) {
	inner, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	tag, err := json.Marshal(map[string]string{"kind": kind})
	if err != nil {
		return nil, err
	}
	if len(inner) == 2 { // "{}"
		return tag, nil
	}
	merged := append(tag[:len(tag)-1], ',')
	merged = append(merged, inner[1:]...)
	return merged, nil
}

func (a Photo) MarshalJSON() ([]byte, error) {
	type alias Photo
	return taggedMarshal(a.Kind(), alias(a))
}

func (a Video) MarshalJSON() ([]byte, error) {
	type alias Video
	return taggedMarshal(a.Kind(), alias(a))
}

func (a AnimatedImage) MarshalJSON() ([]byte, error) {
	type alias AnimatedImage
	return taggedMarshal(a.Kind(), alias(a))
}

func (a Event) MarshalJSON() ([]byte, error) {
	type alias Event
	return taggedMarshal(a.Kind(), alias(a))
}

func (a Poll) MarshalJSON() ([]byte, error) {
	type alias Poll
	return taggedMarshal(a.Kind(), alias(a))
}

func (a Unavailable) MarshalJSON() ([]byte, error) {
	return taggedMarshal(a.Kind(), struct{}{})
}

func (a Unsupported) MarshalJSON() ([]byte, error) {
	return taggedMarshal(a.Kind(), struct{}{})
}

// User identifies an account. Username is empty when the account only has a
// synthetic numeric identity.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username,omitempty"`
	Name       string `json:"name"`
	PictureURL string `json:"picture_url"`
	Verified   bool   `json:"verified"`
	// Description is only populated on search results.
	Description string `json:"description,omitempty"`
}

// Group identifies the group a post was published into.
type Group struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// InfoItem is one entry of a feed's intro panel, like a workplace or a
// website link.
type InfoItem struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
	Type string `json:"type"`
}

// Feed is the header of a profile, page or group.
type Feed struct {
	ID          string     `json:"id"`
	Token       string     `json:"token"`
	Name        string     `json:"name"`
	Verified    bool       `json:"verified"`
	PictureURL  string     `json:"picture_url,omitempty"`
	CoverURL    string     `json:"cover_url,omitempty"`
	Description string     `json:"description,omitempty"`
	Followers   string     `json:"followers,omitempty"`
	Following   string     `json:"following,omitempty"`
	Likes       string     `json:"likes,omitempty"`
	Members     string     `json:"members,omitempty"`
	IsGroup     bool       `json:"is_group"`
	IsPrivate   bool       `json:"is_private"`
	Info        []InfoItem `json:"info,omitempty"`
}

// Post is one normalized story. SharedPost is at most one level deep: a
// reshare of a reshare only reflects the directly shared story.
type Post struct {
	ID            string       `json:"id"`
	PostID        string       `json:"post_id"`
	Author        User         `json:"author"`
	FromGroup     *Group       `json:"from_group,omitempty"`
	IsVideo       bool         `json:"is_video"`
	FeedbackID    string       `json:"feedback_id,omitempty"`
	Text          string       `json:"text"`
	Title         string       `json:"title,omitempty"`
	Time          int64        `json:"time"`
	Attachments   []Attachment `json:"attachments"`
	FilesLeft     int          `json:"files_left"`
	Reactions     Reactions    `json:"reactions"`
	CommentsCount int          `json:"comments_count"`
	ShareCount    int          `json:"share_count"`
	ViewCount     *int64       `json:"view_count,omitempty"`
	Roles         []string     `json:"roles,omitempty"`
	SharedPost    *Post        `json:"shared_post,omitempty"`
	VotersCount   *int         `json:"voters_count,omitempty"`
}

// Comment is one comment or reply under a post.
type Comment struct {
	ID             string     `json:"id"`
	FeedbackID     string     `json:"feedback_id"`
	Author         User       `json:"author"`
	ExpansionToken string     `json:"expansion_token"`
	IsReply        bool       `json:"is_reply"`
	Text           string     `json:"text"`
	Time           int64      `json:"time"`
	RepliesCount   int        `json:"replies_count"`
	Reactions      Reactions  `json:"reactions"`
	Attachment     Attachment `json:"attachment,omitempty"`
}
