// Package httpapi exposes the diary service as a JSON HTTP API backed by
// gin. Blob payloads never travel through these handlers; clients exchange
// them directly with object storage via presigned URLs.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mooddiary/internal/logging"
	"github.com/dmitrijs2005/mooddiary/internal/server/models"
	"github.com/dmitrijs2005/mooddiary/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// UserService is the slice of account behavior the handlers need.
type UserService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// DiaryService covers entry, media and secret persistence, scoped to the
// authenticated user id passed with every call.
type DiaryService interface {
	UpsertEntry(ctx context.Context, userID, date, text, mood string) (string, error)
	GetEntryByDate(ctx context.Context, userID, date string) (*models.Entry, error)
	ListEntries(ctx context.Context, userID, from, to string) ([]models.EntrySummary, error)
	ListMedia(ctx context.Context, userID, entryID string) ([]models.Media, error)
	LinkMedia(ctx context.Context, userID, entryID, locator, kind string) (string, error)
	DeleteMedia(ctx context.Context, userID, mediaID string) error
	ListMemories(ctx context.Context, userID string) ([]models.Memory, error)
	GetSecret(ctx context.Context, userID string) (string, error)
	SetSecret(ctx context.Context, userID, pin string) error
	SetAvatar(ctx context.Context, userID, locator string) error
}

// BlobService issues presigned object-storage URLs.
type BlobService interface {
	PresignPut(ctx context.Context, userID, key, contentType string) (string, error)
	PresignGet(ctx context.Context, userID, key string) (string, error)
}

type Server struct {
	address   string
	logger    logging.Logger
	users     UserService
	diary     DiaryService
	blobs     BlobService
	jwtSecret []byte
}

func NewServer(a string, l logging.Logger, us UserService, ds DiaryService, bs BlobService, secretKey string) (*Server, error) {
	return &Server{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		diary:     ds,
		blobs:     bs,
		jwtSecret: []byte(secretKey),
	}, nil
}

// engine builds the gin router with CORS and all API routes.
func (s *Server) engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	api := r.Group("/api")
	api.GET("/ping", s.ping)
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)
	api.POST("/auth/refresh", s.refreshTokens)

	authed := api.Group("", s.authRequired())
	authed.PUT("/entries", s.upsertEntry)
	authed.GET("/entries/:date", s.getEntry)
	authed.GET("/entries", s.listEntries)
	authed.GET("/media", s.listMedia)
	authed.POST("/media", s.linkMedia)
	authed.DELETE("/media/:id", s.deleteMedia)
	authed.GET("/memories", s.listMemories)
	authed.POST("/blobs/presign", s.presignPut)
	authed.GET("/blobs/url", s.presignGet)
	authed.GET("/secret", s.getSecret)
	authed.PUT("/secret", s.setSecret)
	authed.PUT("/avatar", s.setAvatar)

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.engine(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
