package main

import (
	"context"

	"go.uber.org/zap"

	"blog-auth/internal/api"
	"blog-auth/internal/controller"
	"blog-auth/internal/migrations"
	"blog-auth/internal/service"
	"blog-auth/internal/storage/postgres"
	redisstore "blog-auth/internal/storage/redis"
	"blog-auth/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()
	logger := util.NewZapLogger()

	tokenConfig, err := util.NewTokenConfig()
	if err != nil {
		logger.Fatal(zap.Error(err))
	}

	db, dbCleanup, err := util.NewDBConnection(logger)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	if err := migrations.RunMigrations(db, logger); err != nil {
		logger.Fatal(zap.Error(err))
	}

	redisClient, redisCleanup, err := util.NewRedisClient(logger, util.NewRedisConfig())
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	cleanupFuncs := []func(){dbCleanup, redisCleanup}

	store := postgres.NewStorage(db)

	signer := service.NewSigner(tokenConfig.JwtSecretKey)
	accessTokens := service.NewAccessTokenService(signer, tokenConfig.AccessTTL)
	refreshTokens := service.NewRefreshTokenService(store, tokenConfig.Pepper, tokenConfig.RefreshTTL)
	userService := service.NewUserService(store, logger)
	authService := service.NewAuthService(userService, accessTokens, refreshTokens, logger)

	rateLimiter := service.NewLoginRateLimiter(
		redisstore.NewAttemptStore(redisClient),
		util.NewRateLimiterConfig(),
		logger,
	)

	c := controller.NewController(authService, userService, rateLimiter, util.NewCookieConfig(), tokenConfig, logger)

	apiServer := api.NewAPI(c, authService, util.NewServerConfig(), logger, cleanupFuncs)
	apiServer.Run(ctx)
}
