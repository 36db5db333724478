package main

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"

	"github.com/csec08/authlab/adapters/store"
	"github.com/csec08/authlab/adapters/telemetry"
	"github.com/csec08/authlab/adapters/tokenizer"
	"github.com/csec08/authlab/config"
	"github.com/csec08/authlab/pkg/logger"
	"github.com/csec08/authlab/service"
	transport "github.com/csec08/authlab/transport/http"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.New("info", false).Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse Redis URL")
	}
	redisClient := redis.NewClient(opts)

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: redisClient},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create telemetry publisher")
	}

	challenges := store.NewRedisChallengeStore(redisClient, cfg.ChallengeTTL)

	// Identity persistence is an external collaborator; the in-memory store
	// is the reference implementation for the single-instance research
	// deployment.
	identities := store.NewMemoryIdentityStore()

	authService := service.NewAuthService(
		challenges,
		identities,
		service.NewCredentialVerifier(identities, cfg.BcryptCost),
		tokenizer.NewJWTTokenizer([]byte(cfg.JWTSecret), cfg.SessionTTL),
		service.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow),
		telemetry.NewWatermillRecorder(publisher),
		log,
	)

	router := transport.SetupRouter(authService)

	log.Info().Str("port", cfg.Port).Msg("starting auth service")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
