package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/mooddiary/internal/common"
)

// HTTPStore implements Store against the MoodDiary HTTP API. Blob payloads
// are PUT directly to presigned object-storage URLs issued by the server;
// everything else is JSON over the API.
//
// Safe for concurrent use: media uploads within one save fan out over a
// shared store, so the token pair is guarded by mu and refreshed through a
// single path.
type HTTPStore struct {
	baseURL string
	hc      *http.Client

	mu           sync.Mutex
	owner        string
	accessToken  string
	refreshToken string
}

// NewHTTPStore returns a store talking to the API at baseURL, e.g.
// "http://127.0.0.1:8080".
func NewHTTPStore(baseURL string, timeout time.Duration) *HTTPStore {
	return &HTTPStore{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
	}
}

func (s *HTTPStore) Close() error {
	s.hc.CloseIdleConnections()
	return nil
}

func (s *HTTPStore) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}

func (s *HTTPStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = ""
	s.accessToken = ""
	s.refreshToken = ""
}

func (s *HTTPStore) tokens() (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

type apiError struct {
	Error string `json:"error"`
}

func mapError(status int, msg string) error {
	switch status {
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusConflict:
		return common.ErrLoginAlreadyExists
	case http.StatusUnauthorized:
		switch msg {
		case common.ErrTokenExpired.Error():
			return common.ErrTokenExpired
		case common.ErrInvalidLoginPassword.Error():
			return common.ErrInvalidLoginPassword
		}
		return common.ErrNotAuthenticated
	}
	return fmt.Errorf("server error: status %d: %s", status, msg)
}

// do performs one JSON API call. On a token-expired response it refreshes
// the token pair and retries the call once, mirroring the usual
// interceptor-style transparent refresh.
func (s *HTTPStore) do(ctx context.Context, method, path string, in, out any) error {
	access, refresh := s.tokens()
	err := s.doOnce(ctx, method, path, in, out, access)
	if err == nil {
		return nil
	}
	if refresh == "" || !errors.Is(err, common.ErrTokenExpired) {
		return err
	}
	access, err = s.refreshAccess(ctx, refresh)
	if err != nil {
		return err
	}
	return s.doOnce(ctx, method, path, in, out, access)
}

func (s *HTTPStore) doOnce(ctx context.Context, method, path string, in, out any, accessToken string) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set(common.AuthHeaderName, "Bearer "+accessToken)
	}

	resp, err := s.hc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	}

	var ae apiError
	_ = json.NewDecoder(resp.Body).Decode(&ae)
	return mapError(resp.StatusCode, ae.Error)
}

type tokenPair struct {
	Owner        string `json:"owner"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// refreshAccess rotates the token pair, funneling concurrent callers
// through one refresh. Callers pass the refresh token their failed request
// observed; when a sibling already rotated the pair the fresh access token
// is handed back without a second refresh call.
func (s *HTTPStore) refreshAccess(ctx context.Context, observed string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refreshToken != observed {
		return s.accessToken, nil
	}

	var tp tokenPair
	in := map[string]string{"refresh_token": s.refreshToken}
	if err := s.doOnce(ctx, http.MethodPost, "/api/auth/refresh", in, &tp, ""); err != nil {
		return "", err
	}
	s.accessToken = tp.AccessToken
	s.refreshToken = tp.RefreshToken
	return s.accessToken, nil
}

func (s *HTTPStore) Register(ctx context.Context, username, password string) error {
	in := map[string]string{"username": username, "password": password}
	return s.do(ctx, http.MethodPost, "/api/auth/register", in, nil)
}

func (s *HTTPStore) Login(ctx context.Context, username, password string) error {
	var tp tokenPair
	in := map[string]string{"username": username, "password": password}
	if err := s.do(ctx, http.MethodPost, "/api/auth/login", in, &tp); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = tp.Owner
	s.accessToken = tp.AccessToken
	s.refreshToken = tp.RefreshToken
	return nil
}

func (s *HTTPStore) Ping(ctx context.Context) error {
	return s.do(ctx, http.MethodGet, "/api/ping", nil, nil)
}

func (s *HTTPStore) UpsertEntry(ctx context.Context, date, text, mood string) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	in := map[string]string{"date": date, "text": text, "mood": mood}
	if err := s.do(ctx, http.MethodPut, "/api/entries", in, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (s *HTTPStore) GetEntry(ctx context.Context, date string) (*EntryRecord, error) {
	var rec EntryRecord
	if err := s.do(ctx, http.MethodGet, "/api/entries/"+date, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *HTTPStore) ListEntries(ctx context.Context, from, to string) ([]EntrySummary, error) {
	var result []EntrySummary
	path := fmt.Sprintf("/api/entries?from=%s&to=%s", from, to)
	if err := s.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *HTTPStore) ListMedia(ctx context.Context, entryID string) ([]CommittedMedia, error) {
	var result []CommittedMedia
	if err := s.do(ctx, http.MethodGet, "/api/media?entry="+entryID, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *HTTPStore) UploadBlob(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	var presign struct {
		URL string `json:"url"`
	}
	in := map[string]string{"key": path, "content_type": contentType}
	if err := s.do(ctx, http.MethodPost, "/api/blobs/presign", in, &presign); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presign.URL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("blob upload failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("blob upload failed: status %d", resp.StatusCode)
	}

	return path, nil
}

func (s *HTTPStore) LinkMedia(ctx context.Context, entryID, locator, kind string) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	in := map[string]string{"entry_id": entryID, "locator": locator, "kind": kind}
	if err := s.do(ctx, http.MethodPost, "/api/media", in, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (s *HTTPStore) DeleteMedia(ctx context.Context, mediaID string) error {
	return s.do(ctx, http.MethodDelete, "/api/media/"+mediaID, nil, nil)
}

func (s *HTTPStore) ListMemories(ctx context.Context) ([]Memory, error) {
	var result []Memory
	if err := s.do(ctx, http.MethodGet, "/api/memories", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *HTTPStore) GetSecret(ctx context.Context) (string, error) {
	var resp struct {
		Pin string `json:"pin"`
	}
	if err := s.do(ctx, http.MethodGet, "/api/secret", nil, &resp); err != nil {
		return "", err
	}
	return resp.Pin, nil
}

func (s *HTTPStore) SetSecret(ctx context.Context, pin string) error {
	in := map[string]string{"pin": pin}
	return s.do(ctx, http.MethodPut, "/api/secret", in, nil)
}

func (s *HTTPStore) SetAvatar(ctx context.Context, locator string) error {
	in := map[string]string{"locator": locator}
	return s.do(ctx, http.MethodPut, "/api/avatar", in, nil)
}
