package http

import (
	"github.com/gin-gonic/gin"

	"patternchat/internal/app"
	"patternchat/internal/bootstrap"
	"patternchat/internal/platform/rabbitmq"
	"patternchat/internal/repository"
	"patternchat/internal/transport/http/handler"
)

func NewRouter(boot *bootstrap.App) *gin.Engine {
	gin.SetMode(boot.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	messageRepo := repository.NewMessageRepository(boot.MySQL)
	patternRepo := repository.NewPatternRepository(boot.MySQL)
	factRepo := repository.NewFactRepository(boot.MySQL)

	resolver := app.NewResolverService(patternRepo, factRepo)
	publisher := rabbitmq.NewReplyPublisher(boot.MQConn, boot.Config.RabbitMQ.ReplyPersistQueue)
	chatService := app.NewChatService(messageRepo, resolver, publisher, boot.HistoryCache)

	chatHandler := handler.NewChatHandler(chatService)
	healthHandler := handler.NewHealthHandler(boot)

	router.StaticFile("/", "web/index.html")
	router.GET("/health", healthHandler.Check)
	router.POST("/turn", chatHandler.Turn)
	router.GET("/history", chatHandler.GetHistory)
	router.DELETE("/history", chatHandler.ClearHistory)

	return router
}
