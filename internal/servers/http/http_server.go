package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"threadchat/configs"
	_ "threadchat/docs"
	"threadchat/internal/handlers"
	"threadchat/internal/ratelimit"

	"github.com/gin-gonic/gin"
	swaggoFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	httpServer *HttpServer
	once       sync.Once
)

type HttpServer struct {
	ctx           context.Context
	config        *configs.Config
	router        *gin.Engine
	restHandler   *handlers.RestHandler
	socketHandler *handlers.SocketNotificationHandler
	limiter       *ratelimit.SlidingWindowLimiter
}

func NewHttpServer(
	ctx context.Context,
	config *configs.Config,
	restHandler *handlers.RestHandler,
	socketHandler *handlers.SocketNotificationHandler,
) *HttpServer {
	once.Do(func() {
		httpServer = &HttpServer{
			ctx:           ctx,
			config:        config,
			restHandler:   restHandler,
			socketHandler: socketHandler,
			limiter: ratelimit.NewSlidingWindowLimiter(
				time.Duration(config.Viper.GetInt("rate_limit.window_seconds"))*time.Second,
				config.Viper.GetInt("rate_limit.max_requests"),
			),
		}
	})
	return httpServer
}

func (hs *HttpServer) Run() {
	hs.router = gin.Default()

	hs.setupRoutes()
	hs.socketHandler.StartSocket()

	server := hs.startServer()
	hs.waitForShutdown(server)
}

func (hs *HttpServer) setupRoutes() {
	hs.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggoFiles.Handler))

	hs.router.POST("/login", hs.restHandler.Login)
	hs.router.POST("/register", hs.restHandler.Register)

	hs.router.GET("/ws", hs.socketHandler.HandleSocketRoute)

	authorized := hs.router.Group("/", handlers.MustAuthenticateMiddleware())
	authorized.POST("/user/delete", hs.restHandler.DeleteAccount)
	authorized.POST("/attachments", hs.restHandler.UploadAttachment)
	authorized.GET("/notifications", hs.restHandler.GetNotifications)
	authorized.POST("/notifications/:id/read", hs.restHandler.MarkNotificationRead)

	// Policy chain on the messaging surface: log, gate by wall clock, then
	// throttle state-changing requests. First rejection wins.
	messages := authorized.Group("/messages",
		handlers.RequestLogMiddleware(),
		handlers.BusinessHoursMiddleware(time.Now),
		handlers.AbuseRateLimitMiddleware(hs.limiter),
	)
	messages.POST("", hs.restHandler.SendMessage)
	messages.PUT("/:id", hs.restHandler.EditMessage)
	messages.GET("/:id", hs.restHandler.GetThread)
	messages.GET("/:id/history", hs.restHandler.GetMessageHistory)
	messages.POST("/:id/read", hs.restHandler.MarkMessageRead)
	messages.GET("/unread", hs.restHandler.GetUnreadMessages)
	messages.GET("/with/:user_id", hs.restHandler.GetConversationWith)

	admin := authorized.Group("/admin",
		handlers.RequestLogMiddleware(),
		handlers.RequireElevatedRoleMiddleware(),
	)
	admin.GET("/users", hs.restHandler.GetAllUsersWithPagination)
}

func (hs *HttpServer) startServer() *http.Server {
	addr := fmt.Sprintf(":%d", hs.config.Viper.GetInt("server.port"))
	server := &http.Server{
		Addr:    addr,
		Handler: hs.router,
	}

	go func() {
		log.Println("HTTP server started on", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	return server
}

func (hs *HttpServer) waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := server.Shutdown(hs.ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	hs.socketHandler.CloseAll()

	log.Println("Server exiting")
}
