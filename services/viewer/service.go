// Package viewer serves normalized profiles, posts, groups, albums and
// search results as a JSON API, mirroring the upstream's human-facing URL
// scheme so links can be rewritten onto it 1:1.
package viewer

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"facet-backend/lib/scrapers/comet"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
)

type Config struct {
	Port     int    `json:"port"`
	Upstream string `json:"upstream"`
	CacheDir string `json:"cache_dir"`
}

type Service struct {
	options comet.SessionOptions
}

func NewService(config Config, cache *badger.DB) Service {
	return Service{
		options: comet.SessionOptions{
			BaseURL: config.Upstream,
			Cache:   cache,
		},
	}
}

// Router builds the full route table. The upstream's URL scheme puts plain
// usernames at the root, which would collide with the static routes in
// gin's tree, so profile and post paths are matched in the NoRoute handler
// instead.
func (s Service) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestMetrics())

	router.GET("/metrics", metricsHandler())
	router.GET("/search", s.handleSearch)
	router.GET("/watch", s.handleWatch)
	router.GET("/reel/:token", s.handleReel)
	router.GET("/groups/:token", s.handleGroup)
	router.GET("/groups/:token/posts/:post", s.handleGroupPost)
	router.GET("/groups/:token/permalink/:post", s.handleGroupPost)
	router.GET("/photo", s.handlePhoto)
	router.GET("/photo.php", s.handlePhoto)
	router.GET("/permalink.php", s.handlePermalink)
	router.GET("/profile.php", s.handleProfilePHP)
	router.GET("/media/set", s.handleAlbum)
	router.GET("/share/*path", s.handleShare)
	router.NoRoute(s.handleFallback)

	return router
}

func (s Service) session(c *gin.Context) (*comet.Session, bool) {
	session, err := comet.NewSession(s.options)
	if err != nil {
		slog.Error("failed to create session", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}
	return session, true
}

func renderError(c *gin.Context, err error) {
	var responseErr *comet.ResponseError
	switch {
	case errors.Is(err, comet.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &responseErr):
		slog.Warn("upstream rejected query",
			"operation", responseErr.Operation, "err", responseErr)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream error"})
	default:
		slog.Error("fetch failed", "path", c.Request.URL.Path, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func postRequest(c *gin.Context) comet.PostRequest {
	return comet.PostRequest{
		Cursor: c.Query("cursor"),
		Focus:  c.Query("comment_id"),
		Sort:   c.Query("sort"),
	}
}

func (s Service) renderProfile(c *gin.Context, username string) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	defer session.Close()

	result, err := session.GetProfile(c.Request.Context(), username, c.Query("cursor"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s Service) renderPost(c *gin.Context, result *comet.PostResult, err error) {
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleFallback matches the root-level paths gin's tree cannot hold:
// /{username}, /{username}/posts/{token}, /{username}/videos/{token} and
// /people/{name}/{username}.
func (s Service) handleFallback(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	parts := strings.Split(strings.Trim(c.Request.URL.Path, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		s.renderProfile(c, parts[0])
	case len(parts) == 3 && parts[0] == "people":
		s.renderProfile(c, parts[2])
	case len(parts) == 3 && parts[1] == "posts":
		session, ok := s.session(c)
		if !ok {
			return
		}
		defer session.Close()
		result, err := session.PostFromPermalink(c.Request.Context(), parts[0], parts[2], postRequest(c))
		s.renderPost(c, result, err)
	case len(parts) == 3 && parts[1] == "videos":
		session, ok := s.session(c)
		if !ok {
			return
		}
		defer session.Close()
		result, err := session.PostFromVideo(c.Request.Context(), parts[0], parts[2], postRequest(c))
		s.renderPost(c, result, err)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	}
}

func (s Service) handleProfilePHP(c *gin.Context) {
	s.renderProfile(c, c.Query("id"))
}

func (s Service) handlePermalink(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	defer session.Close()
	result, err := session.PostFromPermalink(
		c.Request.Context(),
		c.Query("id"),
		c.Query("story_fbid"),
		postRequest(c),
	)
	s.renderPost(c, result, err)
}

func (s Service) handleReel(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	defer session.Close()
	result, err := session.PostFromReel(c.Request.Context(), c.Param("token"), postRequest(c))
	s.renderPost(c, result, err)
}

func (s Service) handleGroup(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	defer session.Close()

	result, err := session.GetGroup(c.Request.Context(), c.Param("token"), c.Query("cursor"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s Service) handleGroupPost(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	defer session.Close()
	result, err := session.PostFromGroup(
		c.Request.Context(),
		c.Param("token"),
		c.Param("post"),
		postRequest(c),
	)
	s.renderPost(c, result, err)
}

func (s Service) handlePhoto(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	defer session.Close()
	result, err := session.PostFromPhoto(c.Request.Context(), c.Query("fbid"), postRequest(c))
	s.renderPost(c, result, err)
}

func (s Service) handleAlbum(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	defer session.Close()

	result, err := session.GetAlbum(c.Request.Context(), c.Query("set"), c.Query("cursor"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s Service) handleSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad query"})
		return
	}
	session, ok := s.session(c)
	if !ok {
		return
	}
	defer session.Close()

	result, err := session.Search(c.Request.Context(), query, c.Query("t"), c.Query("cursor"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s Service) handleWatch(c *gin.Context) {
	videoID := c.Query("v")
	if videoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing video id"})
		return
	}
	session, ok := s.session(c)
	if !ok {
		return
	}
	defer session.Close()

	location, err := session.ResolveWatch(c.Request.Context(), videoID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, location)
}

func (s Service) handleShare(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	defer session.Close()

	location, err := session.ResolveShare(
		c.Request.Context(),
		strings.TrimPrefix(c.Param("path"), "/"),
	)
	if err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, location)
}
