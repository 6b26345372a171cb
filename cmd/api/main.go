package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"campusbooks/internal/adapter/api"
	"campusbooks/internal/adapter/api/handler"
	apimiddleware "campusbooks/internal/adapter/api/middleware"
	"campusbooks/internal/adapter/api/router"
	"campusbooks/internal/adapter/repository"
	"campusbooks/internal/domain/service"
	"campusbooks/internal/infrastructure/firebase"
	"campusbooks/internal/infrastructure/media"
	"campusbooks/internal/infrastructure/websocket"
	"campusbooks/internal/usecase"
	"campusbooks/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")

	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
		serviceAccountPath = ""
	} else {
		if serviceAccountPath == "" {
			serviceAccountPath = "./service-account.json"
		}
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	var mediaService service.MediaService
	switch cfg.MediaProvider {
	case "gcs":
		mediaService, err = media.NewGCSClient(ctx, cfg.StorageBucket, serviceAccountPath)
	default:
		mediaService, err = media.NewCloudinaryClient(cfg.CloudinaryCloudName, cfg.CloudinaryApiKey, cfg.CloudinaryApiSecret)
	}
	if err != nil {
		log.Fatalf("Failed to initialize media service (%s): %v", cfg.MediaProvider, err)
	}
	defer mediaService.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient)
	listingUseCase := usecase.NewListingUseCase(listingRepo, mediaService)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, listingRepo, wsManager)
	feed := usecase.NewConversationFeed(chatRepo, wsManager, time.Duration(cfg.FeedPollInterval)*time.Second)

	handler.Setup(authUseCase, listingUseCase, chatUseCase, feed)
	handler.SetupMediaHandler(mediaService)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	wsHandler := handler.NewWebSocketHandler(wsManager, feed)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Setup(e, authMiddleware)
	router.SetupListingRouter(e, authMiddleware, authClient)
	router.SetupChatRouter(e, authMiddleware)
	router.SetupMediaRouter(e, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler, authMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
