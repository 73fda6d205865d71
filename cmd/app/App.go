package app

import (
	"context"
	"sync"
	"time"

	"threadchat/configs"
	"threadchat/internal/cache"
	"threadchat/internal/handlers"
	"threadchat/internal/repositories"
	"threadchat/internal/servers/database"
	"threadchat/internal/servers/http"
	"threadchat/internal/services"

	"github.com/redis/go-redis/v9"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	redis   *redis.Client
	ctx     context.Context
	configs *configs.Config
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

func (app *App) LetsGo() {
	app.ctx = context.Background()
	app.configs = configs.GetConfig()
	app.initializeRedis()

	db := database.GetDB(app.configs)

	authRepo := repositories.NewAuthenticationRepository(db)
	authService := services.NewAuthenticationService(authRepo, app.configs)

	notificationRepo := repositories.NewNotificationRepository(db)
	notificationService := services.NewNotificationService(notificationRepo, app.redis, app.ctx)

	viewCache := cache.NewViewCache(
		time.Duration(app.configs.Viper.GetInt("cache.conversation_ttl_seconds")) * time.Second,
	)

	messagingRepo := repositories.NewMessagingRepository(db)
	messagingService := services.NewMessagingService(messagingRepo, notificationService, viewCache)

	attachmentService := services.NewAttachmentService(app.configs)

	restHandler := handlers.NewRestHandler(
		authService,
		messagingService,
		notificationService,
		attachmentService,
	)
	socketHandler := handlers.NewSocketNotificationHandler(app.redis, app.ctx)

	http.NewHttpServer(
		app.ctx,
		app.configs,
		restHandler,
		socketHandler,
	).Run()
}

func (app *App) initializeRedis() {
	app.redis = redis.NewClient(&redis.Options{
		Addr: app.configs.Viper.GetString("redis.address"),
	})
}
