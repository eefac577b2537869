package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/mdriyaz-a/captionflow/configs"
	"github.com/mdriyaz-a/captionflow/internal/api/handlers"
	"github.com/mdriyaz-a/captionflow/internal/api/middleware"
	job "github.com/mdriyaz-a/captionflow/internal/jobs"
	"github.com/mdriyaz-a/captionflow/internal/publisher"
	"github.com/mdriyaz-a/captionflow/internal/queue"
	"github.com/mdriyaz-a/captionflow/internal/repository"
	"github.com/mdriyaz-a/captionflow/internal/service"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	r2Service := service.NewR2Service(*cfg)
	artifactService := service.NewArtifactService(*cfg, r2Service)
	authService := service.NewAuthService(*cfg, userRepo)
	captionService := service.BuildCaptionService(*cfg)
	postService := service.NewPostService(*cfg, postRepo, artifactService, client)
	cohereClient := service.NewCohereClient(cfg.CohereAPIKey, cfg.CohereBaseURL)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(authService)
	app.Post("/api/auth/register", auth.Register)
	app.Post("/api/auth/login", auth.Login)

	health := handlers.NewHealthHandler(*cfg, db, cohereClient)
	app.Get("/health", health.Health)
	app.Get("/health/database", health.DatabaseHealth)
	app.Get("/health/cohere", health.CohereHealth)
	app.Get("/health/uploads", health.UploadsHealth)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	api.Get("/auth/profile", auth.GetUserInfo)
	api.Post("/auth/instagram-credentials", auth.SetInstagramCredentials)

	caption := handlers.NewCaptionHandler(captionService, artifactService)
	api.Post("/captions/generate", caption.GenerateCaptions)
	api.Get("/captions/styles", caption.ListStyles)

	post := handlers.NewPostHandler(*cfg, postService, authService)
	api.Post("/posts", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/:id", post.GetPost)
	api.Put("/posts/:id", post.UpdatePost)
	api.Delete("/posts/:id", post.RemovePost)
	api.Post("/posts/:id/publish", post.PublishPost)

	upload := handlers.NewUploadHandler(artifactService)
	api.Get("/uploads/:filename", upload.ServeUpload)

	// cron jobs
	cleanupJob := job.NewCleanupJob(cfg.UploadDir)

	// queue
	igPublisher := publisher.NewCommandPublisher(cfg.UploaderCommand)
	queueW := queue.NewQueue(*cfg, postRepo, igPublisher, artifactService)

	c := cron.New()
	c.AddFunc("@every 01h00m00s", cleanupJob.Sweep)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
