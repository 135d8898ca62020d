package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/larrybrager-personal/talking-pet-backend/application/services"
	"github.com/larrybrager-personal/talking-pet-backend/config"
	"github.com/larrybrager-personal/talking-pet-backend/domain"
	"github.com/larrybrager-personal/talking-pet-backend/infrastructure/adapters"
	"github.com/larrybrager-personal/talking-pet-backend/infrastructure/gin_interface/controllers"
	"github.com/larrybrager-personal/talking-pet-backend/middleware"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using process environment")
	}

	serverConfig, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get server config")
	}

	elevenLabsConfig, err := config.GetElevenLabsConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get eleven labs config")
	}

	replicateConfig, err := config.GetReplicateConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get replicate config")
	}

	s3Config, err := config.GetS3Config()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get s3 config")
	}

	postgresConfig, err := config.GetPostgresConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get postgres config")
	}

	muxConfig, err := config.GetMuxConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get mux config")
	}

	registry, err := domain.NewModelCapabilityRegistry(domain.DefaultModels())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build model capability registry")
	}

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(120, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
		Config:            aws.Config{Region: aws.String(s3Config.Region)},
	}))
	s3Client := s3.New(sess)

	pgPool, err := pgxpool.New(context.Background(), postgresConfig.DatabaseUrl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create postgres pool")
	}
	defer pgPool.Close()

	httpClient := &http.Client{Timeout: 2 * time.Minute}

	contentFetcher := adapters.NewContentFetcher(httpClient)

	synthesizer := adapters.NewElevenLabsSynthesizer(httpClient, elevenLabsConfig)

	videoJobs := adapters.NewReplicateVideoJobRunner(httpClient, replicateConfig, registry)

	artifactStore := adapters.NewS3ArtifactStore(s3Client, s3Config)

	muxer := adapters.NewFFMPEGMuxer(zeroLogger, muxConfig)

	recorder := adapters.NewPostgresMetadataRecorder(pgPool, postgresConfig)

	orchestrator := services.NewGenerationOrchestrator(zeroLogger, workerPool, registry,
		synthesizer, videoJobs, artifactStore, muxer, recorder, contentFetcher)

	generationController := controllers.NewGenerationController(zeroLogger, orchestrator, registry)
	debugController := controllers.NewDebugController(contentFetcher)

	router := gin.Default()

	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	authHandler := middleware.NewAuthHandler(serverConfig)

	router.Use(middleware.CORSMiddleware(serverConfig.AllowedOrigin))
	router.Use(authHandler.AuthMiddleware())

	generationController.RegisterRoutes(router)
	debugController.RegisterRoutes(router)

	if err := router.Run(":" + serverConfig.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
