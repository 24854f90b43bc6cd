package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/mooddiary/internal/common"
	"github.com/dmitrijs2005/mooddiary/internal/logging"
	"github.com/dmitrijs2005/mooddiary/internal/server/auth"
	"github.com/dmitrijs2005/mooddiary/internal/server/models"
	"github.com/dmitrijs2005/mooddiary/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeUsers struct {
	registered map[string]string
}

func (f *fakeUsers) Register(ctx context.Context, username, password string) error {
	if _, ok := f.registered[username]; ok {
		return common.ErrLoginAlreadyExists
	}
	f.registered[username] = password
	return nil
}

func (f *fakeUsers) Login(ctx context.Context, username, password string) (*services.TokenPair, error) {
	if f.registered[username] != password {
		return nil, common.ErrInvalidLoginPassword
	}
	access, _ := auth.GenerateToken("u-"+username, auth.TokenTypeAccess, []byte(testSecret), time.Minute)
	refresh, _ := auth.GenerateToken("u-"+username, auth.TokenTypeRefresh, []byte(testSecret), time.Hour)
	return &services.TokenPair{Owner: "u-" + username, AccessToken: access, RefreshToken: refresh}, nil
}

func (f *fakeUsers) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	userID, err := auth.GetUserIDFromToken(refreshToken, auth.TokenTypeRefresh, []byte(testSecret))
	if err != nil {
		return nil, err
	}
	access, _ := auth.GenerateToken(userID, auth.TokenTypeAccess, []byte(testSecret), time.Minute)
	refresh, _ := auth.GenerateToken(userID, auth.TokenTypeRefresh, []byte(testSecret), time.Hour)
	return &services.TokenPair{Owner: userID, AccessToken: access, RefreshToken: refresh}, nil
}

type fakeDiary struct {
	entries  map[string]*models.Entry // "userID|date"
	media    map[string][]models.Media
	secrets  map[string]string
	avatars  map[string]string
	nextID   int
	upserts []string
}

func newFakeDiary() *fakeDiary {
	return &fakeDiary{
		entries: map[string]*models.Entry{},
		media:   map[string][]models.Media{},
		secrets: map[string]string{},
		avatars: map[string]string{},
	}
}

func (f *fakeDiary) UpsertEntry(ctx context.Context, userID, date, text, mood string) (string, error) {
	key := userID + "|" + date
	e, ok := f.entries[key]
	if !ok {
		f.nextID++
		e = &models.Entry{ID: fmt.Sprintf("e-%d", f.nextID), UserID: userID, Date: date}
		f.entries[key] = e
	}
	e.Text, e.Mood, e.UpdatedAt = text, mood, time.Now()
	f.upserts = append(f.upserts, key)
	return e.ID, nil
}

func (f *fakeDiary) GetEntryByDate(ctx context.Context, userID, date string) (*models.Entry, error) {
	e, ok := f.entries[userID+"|"+date]
	if !ok {
		return nil, common.ErrNotFound
	}
	return e, nil
}

func (f *fakeDiary) ListEntries(ctx context.Context, userID, from, to string) ([]models.EntrySummary, error) {
	var out []models.EntrySummary
	for _, e := range f.entries {
		if e.UserID == userID && e.Date >= from && e.Date <= to {
			out = append(out, models.EntrySummary{Date: e.Date, Mood: e.Mood})
		}
	}
	return out, nil
}

func (f *fakeDiary) ListMedia(ctx context.Context, userID, entryID string) ([]models.Media, error) {
	return f.media[userID+"|"+entryID], nil
}

func (f *fakeDiary) LinkMedia(ctx context.Context, userID, entryID, locator, kind string) (string, error) {
	f.nextID++
	id := fmt.Sprintf("m-%d", f.nextID)
	f.media[userID+"|"+entryID] = append(f.media[userID+"|"+entryID], models.Media{ID: id, EntryID: entryID, Kind: kind, Locator: locator})
	return id, nil
}

func (f *fakeDiary) DeleteMedia(ctx context.Context, userID, mediaID string) error {
	for key, items := range f.media {
		for i, m := range items {
			if m.ID == mediaID {
				f.media[key] = append(items[:i], items[i+1:]...)
				return nil
			}
		}
	}
	return common.ErrNotFound
}

func (f *fakeDiary) ListMemories(ctx context.Context, userID string) ([]models.Memory, error) {
	var out []models.Memory
	for key, items := range f.media {
		for _, m := range items {
			if m.Kind == "image" && key[:len(userID)] == userID {
				out = append(out, models.Memory{MediaID: m.ID, Locator: m.Locator})
			}
		}
	}
	return out, nil
}

func (f *fakeDiary) GetSecret(ctx context.Context, userID string) (string, error) {
	pin, ok := f.secrets[userID]
	if !ok {
		return "", common.ErrNotFound
	}
	return pin, nil
}

func (f *fakeDiary) SetSecret(ctx context.Context, userID, pin string) error {
	f.secrets[userID] = pin
	return nil
}

func (f *fakeDiary) SetAvatar(ctx context.Context, userID, locator string) error {
	f.avatars[userID] = locator
	return nil
}

type fakeBlobs struct{}

func (fakeBlobs) PresignPut(ctx context.Context, userID, key, contentType string) (string, error) {
	return "http://signed/put/" + key, nil
}

func (fakeBlobs) PresignGet(ctx context.Context, userID, key string) (string, error) {
	return "http://signed/get/" + key, nil
}

func newTestServer(t *testing.T) (*Server, *fakeDiary, http.Handler) {
	t.Helper()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	diary := newFakeDiary()
	srv, err := NewServer(":0", log, &fakeUsers{registered: map[string]string{"alice": "pw"}}, diary, fakeBlobs{}, testSecret)
	require.NoError(t, err)
	return srv, diary, srv.engine()
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, in any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, h http.Handler) string {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	var tp tokenPairResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tp))
	require.Equal(t, "u-alice", tp.Owner)
	return tp.AccessToken
}

func TestRegister_Conflict(t *testing.T) {
	_, _, h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "alice", "password": "pw"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrLoginAlreadyExists.Error())
}

func TestLogin_BadPassword(t *testing.T) {
	_, _, h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrInvalidLoginPassword.Error())
}

func TestAuthMiddleware(t *testing.T) {
	_, _, h := newTestServer(t)

	// No token at all.
	w := doJSON(t, h, http.MethodGet, "/api/memories", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Expired access token gets the refresh-trigger body.
	expired, err := auth.GenerateToken("u-alice", auth.TokenTypeAccess, []byte(testSecret), -time.Second)
	require.NoError(t, err)
	w = doJSON(t, h, http.MethodGet, "/api/memories", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrTokenExpired.Error())

	// A refresh token is not an access token.
	refresh, err := auth.GenerateToken("u-alice", auth.TokenTypeRefresh, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	w = doJSON(t, h, http.MethodGet, "/api/memories", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEntryLifecycle(t *testing.T) {
	_, diary, h := newTestServer(t)
	token := loginToken(t, h)

	// Missing entry is 404, a normal state for a fresh date.
	w := doJSON(t, h, http.MethodGet, "/api/entries/2026-08-29", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, h, http.MethodPut, "/api/entries", token, map[string]string{"date": "2026-08-29", "text": "hot", "mood": "Happy"})
	require.Equal(t, http.StatusOK, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	// A second upsert for the same date overwrites, same id.
	w = doJSON(t, h, http.MethodPut, "/api/entries", token, map[string]string{"date": "2026-08-29", "text": "cooler", "mood": "Sad"})
	require.Equal(t, http.StatusOK, w.Code)
	var again struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
	assert.Equal(t, created.ID, again.ID)

	w = doJSON(t, h, http.MethodGet, "/api/entries/2026-08-29", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entry entryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "cooler", entry.Text)
	assert.Equal(t, "Sad", entry.Mood)

	w = doJSON(t, h, http.MethodGet, "/api/entries?from=2026-08-01&to=2026-08-31", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summaries []map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "Sad", summaries[0]["mood"])

	// Entries are scoped per user in the fake through the userID key.
	assert.Contains(t, diary.entries, "u-alice|2026-08-29")
}

func TestUpsertEntry_BadDate(t *testing.T) {
	_, _, h := newTestServer(t)
	token := loginToken(t, h)

	w := doJSON(t, h, http.MethodPut, "/api/entries", token, map[string]string{"date": "29/08/2026"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaLifecycle(t *testing.T) {
	_, _, h := newTestServer(t)
	token := loginToken(t, h)

	w := doJSON(t, h, http.MethodPut, "/api/entries", token, map[string]string{"date": "2026-08-29", "text": "x", "mood": "Happy"})
	require.Equal(t, http.StatusOK, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, h, http.MethodPost, "/api/media", token, map[string]string{
		"entry_id": created.ID, "locator": "u-alice/" + created.ID + "/1-jpg", "kind": "image",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var linked struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &linked))

	w = doJSON(t, h, http.MethodGet, "/api/media?entry="+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var media []map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &media))
	require.Len(t, media, 1)
	assert.Equal(t, "image", media[0]["kind"])

	w = doJSON(t, h, http.MethodGet, "/api/memories", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var memories []map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &memories))
	require.Len(t, memories, 1)

	w = doJSON(t, h, http.MethodDelete, "/api/media/"+linked.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodDelete, "/api/media/"+linked.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPresignRoutes(t *testing.T) {
	_, _, h := newTestServer(t)
	token := loginToken(t, h)

	w := doJSON(t, h, http.MethodPost, "/api/blobs/presign", token, map[string]string{"key": "u-alice/e-1/1-jpg", "content_type": "image/jpeg"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http://signed/put/u-alice/e-1/1-jpg")

	w = doJSON(t, h, http.MethodGet, "/api/blobs/url?key=u-alice/e-1/1-jpg", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http://signed/get/u-alice/e-1/1-jpg")
}

func TestSecretRoutes(t *testing.T) {
	_, _, h := newTestServer(t)
	token := loginToken(t, h)

	// No PIN configured yet.
	w := doJSON(t, h, http.MethodGet, "/api/secret", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, h, http.MethodPut, "/api/secret", token, map[string]string{"pin": "1234"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/secret", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1234")
}

func TestAvatarRoute(t *testing.T) {
	_, diary, h := newTestServer(t)
	token := loginToken(t, h)

	w := doJSON(t, h, http.MethodPut, "/api/avatar", token, map[string]string{"locator": "u-alice/avatar-1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-alice/avatar-1", diary.avatars["u-alice"])
}

func TestRefreshRoute(t *testing.T) {
	_, _, h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	var tp tokenPairResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tp))

	w = doJSON(t, h, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": tp.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	var next tokenPairResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &next))
	assert.NotEmpty(t, next.AccessToken)

	// Garbage refresh token is rejected.
	w = doJSON(t, h, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": "junk"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
