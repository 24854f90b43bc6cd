package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mooddiary/internal/common"
	"github.com/gin-gonic/gin"
)

// writeError maps service errors to HTTP statuses. The body always carries
// {"error": ...}; internal details never leak past logging.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": common.ErrNotFound.Error()})
	case errors.Is(err, common.ErrLoginAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": common.ErrLoginAlreadyExists.Error()})
	case errors.Is(err, common.ErrInvalidLoginPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": common.ErrInvalidLoginPassword.Error()})
	case errors.Is(err, common.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": common.ErrTokenExpired.Error()})
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": common.ErrNotAuthenticated.Error()})
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": common.ErrInternal.Error()})
	}
}

func (s *Server) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{})
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenPairResponse struct {
	Owner        string `json:"owner"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.users.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (s *Server) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenPairResponse{Owner: pair.Owner, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) refreshTokens(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, err := s.users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenPairResponse{Owner: pair.Owner, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

type entryResponse struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Text      string    `json:"text"`
	Mood      string    `json:"mood"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) upsertEntry(c *gin.Context) {
	var req struct {
		Date string `json:"date" binding:"required"`
		Text string `json:"text"`
		Mood string `json:"mood"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := time.Parse(common.DateLayout, req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}
	id, err := s.diary.UpsertEntry(c.Request.Context(), userID(c), req.Date, req.Text, req.Mood)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *Server) getEntry(c *gin.Context) {
	entry, err := s.diary.GetEntryByDate(c.Request.Context(), userID(c), c.Param("date"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entryResponse{
		ID: entry.ID, Date: entry.Date, Text: entry.Text, Mood: entry.Mood, UpdatedAt: entry.UpdatedAt,
	})
}

func (s *Server) listEntries(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}
	summaries, err := s.diary.ListEntries(c.Request.Context(), userID(c), from, to)
	if err != nil {
		s.writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, gin.H{"date": sum.Date, "mood": sum.Mood})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listMedia(c *gin.Context) {
	entryID := c.Query("entry")
	if entryID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entry is required"})
		return
	}
	items, err := s.diary.ListMedia(c.Request.Context(), userID(c), entryID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(items))
	for _, m := range items {
		out = append(out, gin.H{"id": m.ID, "kind": m.Kind, "locator": m.Locator})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) linkMedia(c *gin.Context) {
	var req struct {
		EntryID string `json:"entry_id" binding:"required"`
		Locator string `json:"locator" binding:"required"`
		Kind    string `json:"kind" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := s.diary.LinkMedia(c.Request.Context(), userID(c), req.EntryID, req.Locator, req.Kind)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *Server) deleteMedia(c *gin.Context) {
	if err := s.diary.DeleteMedia(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (s *Server) listMemories(c *gin.Context) {
	memories, err := s.diary.ListMemories(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(memories))
	for _, m := range memories {
		out = append(out, gin.H{"id": m.MediaID, "locator": m.Locator, "date": m.Date, "text": m.Text, "mood": m.Mood})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) presignPut(c *gin.Context) {
	var req struct {
		Key         string `json:"key" binding:"required"`
		ContentType string `json:"content_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	url, err := s.blobs.PresignPut(c.Request.Context(), userID(c), req.Key, req.ContentType)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (s *Server) presignGet(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}
	url, err := s.blobs.PresignGet(c.Request.Context(), userID(c), key)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (s *Server) getSecret(c *gin.Context) {
	pin, err := s.diary.GetSecret(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pin": pin})
}

func (s *Server) setSecret(c *gin.Context) {
	var req struct {
		Pin string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.diary.SetSecret(c.Request.Context(), userID(c), req.Pin); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (s *Server) setAvatar(c *gin.Context) {
	var req struct {
		Locator string `json:"locator" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.diary.SetAvatar(c.Request.Context(), userID(c), req.Locator); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
