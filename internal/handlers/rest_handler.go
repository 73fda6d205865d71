package handlers

import (
	"log"
	"net/http"
	"strconv"

	"threadchat/internal/errs"
	"threadchat/internal/models"
	"threadchat/internal/msgs"
	"threadchat/internal/services"

	"github.com/gin-gonic/gin"
)

type RestHandler struct {
	authService         *services.AuthenticationService
	messagingService    *services.MessagingService
	notificationService *services.NotificationService
	attachmentService   *services.AttachmentService
}

func NewRestHandler(
	authService *services.AuthenticationService,
	messagingService *services.MessagingService,
	notificationService *services.NotificationService,
	attachmentService *services.AttachmentService,
) *RestHandler {
	return &RestHandler{
		authService:         authService,
		messagingService:    messagingService,
		notificationService: notificationService,
		attachmentService:   attachmentService,
	}
}

func (rh *RestHandler) abortWithError(ctx *gin.Context, err error) {
	ctx.AbortWithStatusJSON(errs.HttpStatus(err), models.Response{
		Success: false,
		Message: msgs.MsgOperationFailed,
		Errors:  []error{err},
	})
}

// Login godoc
// @Summary      Login to an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /login [post]
func (rh *RestHandler) Login(ctx *gin.Context) {
	var loginData models.LoginRequestBody
	if err := ctx.BindJSON(&loginData); err != nil {
		log.Println("Error login data json binding:", err)
		rh.abortWithError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	loginResponse, err := rh.authService.Login(&loginData)
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    loginResponse,
	})
}

// Register godoc
// @Summary      Create an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /register [post]
func (rh *RestHandler) Register(ctx *gin.Context) {
	var user models.User
	if err := ctx.BindJSON(&user); err != nil {
		rh.abortWithError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	if _, err := rh.authService.Register(&user); err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgUserCreatedSuccessfully,
	})
}

// DeleteAccount godoc
// @Summary      Delete the authenticated account and all its messages
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      401  {object}  models.Response
// @Router       /user/delete [post]
func (rh *RestHandler) DeleteAccount(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")

	if err := rh.messagingService.DeleteAccount(userID); err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgUserDeletedSuccessfully,
	})
}

// SendMessage godoc
// @Summary      Send a message, optionally as a reply
// @Tags         messages
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Router       /messages [post]
func (rh *RestHandler) SendMessage(ctx *gin.Context) {
	senderID := ctx.GetUint("user_id")

	var body models.SendMessageRequestBody
	if err := ctx.BindJSON(&body); err != nil {
		rh.abortWithError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	message, err := rh.messagingService.SendMessage(senderID, &body)
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    message,
	})
}

// EditMessage godoc
// @Summary      Edit a sent message, recording the previous content
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        id   path      int  true  "Message ID"
// @Success      200  {object}  models.Response
// @Failure      403  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Router       /messages/{id} [put]
func (rh *RestHandler) EditMessage(ctx *gin.Context) {
	actorID := ctx.GetUint("user_id")

	messageID, ok := rh.pathID(ctx, "id")
	if !ok {
		return
	}

	var body models.EditMessageRequestBody
	if err := ctx.BindJSON(&body); err != nil {
		rh.abortWithError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	message, err := rh.messagingService.EditMessage(messageID, &body, actorID)
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    message,
	})
}

// GetThread godoc
// @Summary      Get a message with its reply tree
// @Tags         messages
// @Produce      json
// @Param        id   path      int  true  "Message ID"
// @Success      200  {object}  models.ThreadResponse
// @Failure      404  {object}  models.Response
// @Router       /messages/{id} [get]
func (rh *RestHandler) GetThread(ctx *gin.Context) {
	messageID, ok := rh.pathID(ctx, "id")
	if !ok {
		return
	}

	thread, err := rh.messagingService.GetThread(messageID)
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, thread)
}

// GetMessageHistory godoc
// @Summary      Get the edit history of a message, newest first
// @Tags         messages
// @Produce      json
// @Param        id   path      int  true  "Message ID"
// @Success      200  {array}   models.HistoryResponse
// @Failure      404  {object}  models.Response
// @Router       /messages/{id}/history [get]
func (rh *RestHandler) GetMessageHistory(ctx *gin.Context) {
	messageID, ok := rh.pathID(ctx, "id")
	if !ok {
		return
	}

	history, err := rh.messagingService.GetMessageHistory(messageID)
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, history)
}

// GetUnreadMessages godoc
// @Summary      Get unread messages for the authenticated user
// @Tags         messages
// @Produce      json
// @Success      200  {array}  models.MessageResponse
// @Router       /messages/unread [get]
func (rh *RestHandler) GetUnreadMessages(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")

	messages, err := rh.messagingService.GetUnreadMessages(userID)
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, messages)
}

// GetConversationWith godoc
// @Summary      Get the conversation with another user, cached for 60s
// @Tags         messages
// @Produce      json
// @Param        user_id  path  int  true  "Other user ID"
// @Success      200  {array}   models.MessageResponse
// @Failure      404  {object}  models.Response
// @Router       /messages/with/{user_id} [get]
func (rh *RestHandler) GetConversationWith(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")

	otherUserID, ok := rh.pathID(ctx, "user_id")
	if !ok {
		return
	}
	if _, err := rh.authService.GetUserByID(otherUserID); err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	view, cached, ttl, err := rh.messagingService.GetConversation(userID, otherUserID)
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	// Freshness is observable: callers can tell a cached view from a live
	// one and see how long it stays valid.
	if cached {
		ctx.Header("X-Cache", "HIT")
	} else {
		ctx.Header("X-Cache", "MISS")
	}
	ctx.Header("X-Cache-TTL", strconv.Itoa(int(ttl.Seconds())))

	ctx.JSON(http.StatusOK, view)
}

// MarkMessageRead godoc
// @Summary      Mark a received message as read
// @Tags         messages
// @Produce      json
// @Param        id   path      int  true  "Message ID"
// @Success      200  {object}  models.Response
// @Failure      403  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Router       /messages/{id}/read [post]
func (rh *RestHandler) MarkMessageRead(ctx *gin.Context) {
	actorID := ctx.GetUint("user_id")

	messageID, ok := rh.pathID(ctx, "id")
	if !ok {
		return
	}

	if err := rh.messagingService.MarkMessageRead(messageID, actorID); err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
	})
}

// MarkNotificationRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        id   path      int  true  "Notification ID"
// @Success      200  {object}  models.Response
// @Failure      403  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Router       /notifications/{id}/read [post]
func (rh *RestHandler) MarkNotificationRead(ctx *gin.Context) {
	actorID := ctx.GetUint("user_id")

	notificationID, ok := rh.pathID(ctx, "id")
	if !ok {
		return
	}

	if err := rh.notificationService.MarkAsRead(notificationID, actorID); err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
	})
}

// GetNotifications godoc
// @Summary      List notifications for the authenticated user
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  models.Response
// @Router       /notifications [get]
func (rh *RestHandler) GetNotifications(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")

	notifications, err := rh.notificationService.GetNotificationsForUser(userID)
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    notifications,
	})
}

// UploadAttachment godoc
// @Summary      Upload a file to embed in a message
// @Tags         messages
// @Accept       multipart/form-data
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /attachments [post]
func (rh *RestHandler) UploadAttachment(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		rh.abortWithError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		rh.abortWithError(ctx, errs.ErrInvalidRequestBody)
		return
	}
	defer file.Close()

	url, err := rh.attachmentService.UploadAttachment(
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    models.AttachmentResponse{URL: url},
	})
}

// GetAllUsersWithPagination godoc
// @Summary      List users (staff only)
// @Tags         admin
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      403  {object}  models.Response
// @Router       /admin/users [get]
func (rh *RestHandler) GetAllUsersWithPagination(ctx *gin.Context) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(ctx.DefaultQuery("size", "10"))
	if err != nil || size < 1 {
		size = 10
	}

	response, err := rh.authService.GetAllUsersWithPagination(page, size)
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    response,
	})
}

func (rh *RestHandler) pathID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		rh.abortWithError(ctx, errs.ErrInvalidParams)
		return 0, false
	}
	return uint(id), true
}
