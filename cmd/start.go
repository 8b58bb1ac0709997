package cmd

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/lerhino/rhino-be/config"
	"github.com/lerhino/rhino-be/handler"
	"github.com/lerhino/rhino-be/middleware"
	"github.com/lerhino/rhino-be/service"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the chat relay server",
	Long:  `Starts the HTTP server that relays chat messages and serves the drive proxy`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadConfig(cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if cfg.WebhookURL == "" {
			log.Println("N8N_WEBHOOK_URL is not set, chat sends will fail until it is configured")
		}

		// Initialize services
		mailbox := service.NewMailbox()
		hub := service.NewHub()
		relay := service.NewWebhookService(cfg.WebhookURL)
		chatService := service.NewChatService(relay, mailbox, cfg.PollInterval, cfg.ReplyTimeout)

		var driveAPI handler.DriveAPI
		driveService, err := service.NewDriveService(
			context.Background(),
			service.DriveCredentials{
				ClientEmail: cfg.Drive.ClientEmail,
				PrivateKey:  cfg.Drive.PrivateKey,
			},
			cfg.Drive.FolderID,
		)
		if err != nil {
			log.Printf("Drive proxy disabled: %v", err)
		} else {
			driveAPI = driveService
		}

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		chatHandler := handler.NewChatHandler(chatService)
		webhookHandler := handler.NewWebhookHandler(mailbox, hub)
		driveHandler := handler.NewDriveHandler(driveAPI, cfg.UploadMaxBytes)
		wsHandler := handler.NewWSHandler(hub)

		// Setup Gin router
		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		api := router.Group("/api")
		{
			api.POST("/webhooks/chat", webhookHandler.HandleCallback)
			api.GET("/webhooks/chat/check", webhookHandler.HandleCheck)
			api.GET("/drive/files", driveHandler.HandleListFiles)
			api.POST("/drive/upload", middleware.AuthMiddleware, driveHandler.HandleUpload)
			api.GET("/ws", wsHandler.HandleConnection)
		}

		apiV1 := router.Group("/api/v1")
		apiV1.Use(middleware.IdentityMiddleware)
		{
			apiV1.POST("/session", chatHandler.HandleCreateSession)
			apiV1.POST("/chat", chatHandler.HandleChat)
			apiV1.GET("/chat/history", chatHandler.HandleHistory)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
	startServerCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
}
