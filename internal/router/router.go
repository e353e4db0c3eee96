package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/openbook-app/backend/internal/graph"
	"github.com/openbook-app/backend/internal/handlers"
	"github.com/openbook-app/backend/internal/middleware"
	"github.com/openbook-app/backend/internal/models"
	"github.com/openbook-app/backend/internal/notify"
	"github.com/openbook-app/backend/internal/reactions"
	"github.com/openbook-app/backend/internal/repositories"
	"github.com/openbook-app/backend/internal/visibility"
	"github.com/openbook-app/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, log *logrus.Logger) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(middleware.LogMiddleware(log))
}

// SetupRoutes configures all application routes and injects dependencies.
// The returned sink must be closed on shutdown so queued notification
// events drain.
func SetupRoutes(e *echo.Echo, db *config.DB, log *logrus.Logger) (*notify.Sink, error) {
	pgdb := db.Postgres

	if err := pgdb.AutoMigrate(
		&models.User{},
		&models.FriendRequest{},
		&models.Follow{},
		&models.Group{},
		&models.Membership{},
		&models.Page{},
		&models.PageLike{},
		&models.PageInvitation{},
		&models.Comment{},
		&models.Reaction{},
		&models.Notification{},
	); err != nil {
		return nil, err
	}
	log.Info("PostgreSQL auto-migrations completed")

	e.GET("/health", handlers.HealthCheck)

	// Repositories
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	groupRepo := repositories.NewPostgresGroupRepository(pgdb)
	pageRepo := repositories.NewPostgresPageRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(db.Mongo.Database("openbook"))
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	reactionRepo := repositories.NewPostgresReactionRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	// Relationship graph, with the friendship edge cached in Redis
	graphStore := graph.NewStore(friendshipRepo, groupRepo, followRepo)
	cachedGraph := graph.NewCached(graphStore, db.Redis, log)
	evaluator := visibility.NewEvaluator(cachedGraph)

	// Reaction ledger and notification pipeline
	ledger := reactions.NewLedger(reactionRepo)
	counters := repositories.NewInteractionCounter(reactionRepo, commentRepo)
	aggregator := notify.NewAggregator(notificationRepo, counters)
	sink := notify.NewSink(aggregator, log, notify.SinkOptions{})

	notifier := handlers.NewNotifier(sink, userRepo, log)

	userHandler := handlers.NewUserHandler(userRepo)

	// Account creation stays open; everything else requires a token
	e.POST("/api/v1/users", userHandler.CreateUser)

	// Protected routes
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	userHandler.RegisterUserRoutes(api)
	handlers.NewPostHandler(postRepo, groupRepo, pageRepo, evaluator, cachedGraph, notifier).RegisterPostRoutes(api)
	handlers.NewFeedHandler(postRepo, groupRepo, evaluator).RegisterFeedRoutes(api)
	handlers.NewCommentHandler(commentRepo, postRepo, groupRepo, evaluator, notifier).RegisterCommentRoutes(api)
	handlers.NewReactionHandler(ledger, reactionRepo, postRepo, commentRepo, groupRepo, evaluator, notifier).RegisterReactionRoutes(api)
	handlers.NewFriendshipHandler(friendshipRepo, cachedGraph, notifier).RegisterFriendshipRoutes(api)
	handlers.NewFollowHandler(followRepo, userRepo).RegisterFollowRoutes(api)
	handlers.NewGroupHandler(groupRepo, userRepo, notifier).RegisterGroupRoutes(api)
	handlers.NewPageHandler(pageRepo, userRepo, notifier).RegisterPageRoutes(api)
	handlers.NewNotificationHandler(notificationRepo).RegisterNotificationRoutes(api)

	log.Info("All routes configured")
	return sink, nil
}
