package setup

import (
	"context"

	"github.com/filebridge/filebridge/internal/codec"
	"github.com/filebridge/filebridge/internal/config"
	"github.com/filebridge/filebridge/internal/handler"
	"github.com/filebridge/filebridge/internal/middleware"
	"github.com/filebridge/filebridge/internal/service"
	"github.com/filebridge/filebridge/internal/storage/mongo"
	"github.com/filebridge/filebridge/internal/upstream"
	"github.com/filebridge/filebridge/internal/utils/jwt"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Storage        *mongo.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Pending        *service.PendingCache
	Pool           *service.SessionPool
	Config         *config.Config
}

// SetupDependencies initializes all dependencies required for the
// application. Sessions are injected so tests can pass fakes.
func SetupDependencies(ctx context.Context, cfg *config.Config, sessions []upstream.Client) (*Dependencies, error) {
	storage, err := mongo.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pool := service.NewSessionPool(sessions)
	streamer := service.NewStreamer(cfg.Public.ChunkSize)
	pending := service.NewPendingCache(cfg.PendingTTL())
	linkCodec := codec.New(cfg.Private.CodecSeed)
	resolver := service.NewPooledResolver(pool, streamer)
	files := service.NewFiles(storage, pending, linkCodec, resolver, cfg.Public.BaseUrl)

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	h := handler.New(files, pool, streamer, linkCodec, jwtService, cfg)

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: middleware.NewAuth(jwtService),
		Pending:        pending,
		Pool:           pool,
		Config:         cfg,
	}, nil
}
