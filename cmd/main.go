package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"SafeMap-App/internal/config"
	domainrepo "SafeMap-App/internal/domain/repository"
	"SafeMap-App/internal/domain/service"
	"SafeMap-App/internal/handler"
	"SafeMap-App/internal/infrastructure/database"
	fsinfra "SafeMap-App/internal/infrastructure/firestore"
	repoImpl "SafeMap-App/internal/repository"
	"SafeMap-App/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	appCfg := config.LoadAppConfig()

	scoringCfg, err := config.LoadScoringConfig(appCfg.ScoringConfigPath)
	if err != nil {
		log.Fatalf("❌ Scoring configuration invalid: %v", err)
	}
	log.Printf("✅ Scoring config loaded (model_version=%s, %d POI types)", scoringCfg.ModelVersion, len(scoringCfg.Weights))

	ctx := context.Background()

	// POI backend: direct PostgreSQL/PostGIS by default, Supabase PostgREST
	// as the fallback for deployments without a direct database connection.
	var nearestRepo domainrepo.NearestPOIRepository
	var poisRepo domainrepo.POIsRepository
	var healthDB handler.HealthChecker
	var pgClient *database.PostgreSQLClient

	switch appCfg.DBBackend {
	case "supabase":
		supabaseClient, err := database.NewSupabaseClient()
		if err != nil {
			log.Fatalf("❌ Supabase client initialization failed: %v", err)
		}
		repo := repoImpl.NewSupabasePOIsRepository(supabaseClient)
		nearestRepo, poisRepo, healthDB = repo, repo, supabaseClient
		log.Println("✅ POI backend: Supabase")
	case "postgres":
		pgClient, err = database.NewPostgreSQLClient()
		if err != nil {
			log.Fatalf("❌ PostgreSQL connection failed: %v", err)
		}
		defer pgClient.Close()
		repo := repoImpl.NewPostgresPOIsRepository(pgClient)
		nearestRepo, poisRepo, healthDB = repo, repo, pgClient
		log.Println("✅ POI backend: PostgreSQL")
	default:
		log.Fatalf("❌ Unknown DB_BACKEND %q (expected postgres or supabase)", appCfg.DBBackend)
	}

	scoringService, err := service.NewScoringService(nearestRepo, scoringCfg)
	if err != nil {
		log.Fatalf("❌ Scoring service initialization failed: %v", err)
	}

	scoreCache, gridCache := buildCaches(ctx, appCfg, pgClient)

	scoreUseCase := usecase.NewScoreUseCase(scoringService, scoreCache)
	gridUseCase := usecase.NewGridUseCase(service.NewGridTiler(scoringCfg.MaxGridCells), scoringService, gridCache)
	poiUseCase := usecase.NewPOIUseCase(poisRepo)

	scoreHandler := handler.NewScoreHandler(scoreUseCase)
	gridHandler := handler.NewGridHandler(gridUseCase, scoringCfg)
	poiHandler := handler.NewPOIHandler(poiUseCase)
	healthHandler := handler.NewHealthHandler(healthDB, scoringCfg.ModelVersion)

	router := gin.Default()
	router.Use(handler.CORSMiddleware(appCfg.CORSOrigins))
	router.Use(handler.RequestIDMiddleware())

	router.GET("/", healthHandler.GetRoot)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/score", scoreHandler.GetScore)
	router.GET("/grid", gridHandler.GetGrid)
	router.GET("/grid/resolutions", gridHandler.GetResolutions)
	router.GET("/pois", poiHandler.GetPOIs)
	router.GET("/pois/stats", poiHandler.GetPOIStats)

	log.Printf("🚀 SafeMap API starting on :%s", appCfg.Port)
	if err := router.Run(":" + appCfg.Port); err != nil {
		log.Fatalf("❌ Server stopped: %v", err)
	}
}

// buildCaches selects the score/grid cache backends. The grid cache always
// lives in PostgreSQL (it needs transactional batch writes); the point score
// cache can alternatively be served from Redis or Firestore.
func buildCaches(ctx context.Context, appCfg *config.AppConfig, pgClient *database.PostgreSQLClient) (domainrepo.ScoreCacheRepository, domainrepo.GridCacheRepository) {
	if pgClient == nil {
		// Supabase POI backend without a direct database: fall back to an
		// in-memory cache so the engine still avoids recomputation.
		log.Println("⚠️ No direct PostgreSQL connection, using in-memory caches")
		mem := repoImpl.NewMemoryCacheRepository()
		return mem, mem
	}

	gridCache := repoImpl.NewPostgresGridCacheRepository(pgClient)

	switch appCfg.CacheBackend {
	case "redis":
		redisClient, err := database.NewRedisClientFromEnv(ctx)
		if err != nil {
			log.Fatalf("❌ Redis connection failed: %v", err)
		}
		log.Println("✅ Score cache backend: Redis")
		return repoImpl.NewRedisScoreCacheRepository(redisClient), gridCache
	case "firestore":
		projectID := os.Getenv("FIRESTORE_PROJECT_ID")
		if projectID == "" {
			log.Fatal("❌ FIRESTORE_PROJECT_ID environment variable is not set")
		}
		fsClient, err := fsinfra.NewFirestoreClient(ctx, projectID)
		if err != nil {
			log.Fatalf("❌ Firestore client initialization failed: %v", err)
		}
		log.Println("✅ Score cache backend: Firestore")
		return repoImpl.NewFirestoreScoreCacheRepository(fsClient), gridCache
	case "postgres":
		log.Println("✅ Score cache backend: PostgreSQL")
		return repoImpl.NewPostgresScoreCacheRepository(pgClient), gridCache
	default:
		log.Fatalf("❌ Unknown CACHE_BACKEND %q (expected postgres, redis or firestore)", appCfg.CacheBackend)
		return nil, nil
	}
}
