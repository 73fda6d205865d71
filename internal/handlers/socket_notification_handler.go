package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"threadchat/internal/errs"
	"threadchat/internal/models"
	redisModels "threadchat/internal/models/redis"
	"threadchat/internal/msgs"
	"threadchat/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

type socketClient struct {
	conn   *websocket.Conn
	userID uint
}

// SocketNotificationHandler keeps a hub of connected users and pushes each
// new-message event, arriving over the redis channel, to the receiver's open
// connections.
type SocketNotificationHandler struct {
	mu       sync.Mutex
	ctx      context.Context
	redis    *redis.Client
	upgrader websocket.Upgrader
	clients  map[uint][]*socketClient
}

func NewSocketNotificationHandler(redis *redis.Client, ctx context.Context) *SocketNotificationHandler {
	return &SocketNotificationHandler{
		ctx:     ctx,
		redis:   redis,
		clients: make(map[uint][]*socketClient),
	}
}

func (snh *SocketNotificationHandler) StartSocket() {
	snh.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	go snh.handleRedisEvents()
}

func (snh *SocketNotificationHandler) HandleSocketRoute(ctx *gin.Context) {
	jwtToken := ctx.Query("token")
	if jwtToken == "" {
		jwtToken = ctx.GetHeader("Authorization")
	}
	if jwtToken == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgYouMustLoginFirst,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	userInfo, err := utils.VerifyToken(jwtToken, utils.GetJwtKey())
	if err != nil || userInfo.ID == 0 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgYouMustLoginFirst,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	snh.handleConnection(ctx, userInfo.ID)
}

func (snh *SocketNotificationHandler) handleConnection(ctx *gin.Context, userID uint) {
	ws, err := snh.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer func() {
		if err := ws.Close(); err != nil {
			log.Printf("Error closing connection: %v", err)
		}
	}()

	client := &socketClient{conn: ws, userID: userID}
	snh.addClient(client)
	defer snh.removeClient(client)

	// Clients only listen; the read loop exists to notice disconnects.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}

func (snh *SocketNotificationHandler) addClient(client *socketClient) {
	snh.mu.Lock()
	defer snh.mu.Unlock()
	snh.clients[client.userID] = append(snh.clients[client.userID], client)
}

func (snh *SocketNotificationHandler) removeClient(client *socketClient) {
	snh.mu.Lock()
	defer snh.mu.Unlock()
	remaining := snh.clients[client.userID][:0]
	for _, c := range snh.clients[client.userID] {
		if c != client {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		delete(snh.clients, client.userID)
	} else {
		snh.clients[client.userID] = remaining
	}
}

func (snh *SocketNotificationHandler) handleRedisEvents() {
	pubsub := snh.redis.Subscribe(snh.ctx, redisModels.REDIS_CHANNEL_MESSAGE_EVENTS)
	if _, err := pubsub.Receive(snh.ctx); err != nil {
		log.Printf("Could not subscribe to message events: %v", err)
		return
	}

	for msg := range pubsub.Channel() {
		var event redisModels.PublishedMessageEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("Error unmarshalling message event: %v", err)
			continue
		}
		snh.pushToReceiver(event)
	}
}

func (snh *SocketNotificationHandler) pushToReceiver(event redisModels.PublishedMessageEvent) {
	snh.mu.Lock()
	defer snh.mu.Unlock()

	for _, client := range snh.clients[event.ReceiverID] {
		if err := client.conn.WriteJSON(event); err != nil {
			log.Printf("Error writing json: %v", err)
		}
	}
}

// CloseAll drops every open connection, used during shutdown.
func (snh *SocketNotificationHandler) CloseAll() {
	snh.mu.Lock()
	defer snh.mu.Unlock()
	for userID, clients := range snh.clients {
		for _, client := range clients {
			if err := client.conn.Close(); err != nil {
				log.Printf("Error closing connection: %v", err)
			}
		}
		delete(snh.clients, userID)
	}
}
