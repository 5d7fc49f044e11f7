package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Milad704/socialmedia/internal"
	"github.com/Milad704/socialmedia/internal/chat"
	"github.com/Milad704/socialmedia/internal/data"
	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/internal/input"
	"github.com/Milad704/socialmedia/internal/live"
	"github.com/Milad704/socialmedia/internal/service"
	"github.com/Milad704/socialmedia/pkg/nlog"
	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	godotenv.Load()

	config, err := internal.LoadConfig(".")
	if err != nil {
		fmt.Printf("Could not load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger, err := nlog.NewAppLogger(config.LogDir, config.EnableLogging)
	if err != nil {
		fmt.Printf("Could not set up logging: %v\n", err)
		os.Exit(1)
	}
	go appLogger.Run(ctx)
	defer appLogger.CloseAll()

	db, err := gorm.Open(sqlite.Open(config.DBName), &gorm.Config{})
	if err != nil {
		fmt.Printf("Could not open the database: %v\n", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(
		&entity.StoreState{},
		&entity.Account{},
		&entity.AccountSecret{},
		&entity.Friendship{},
		&entity.FriendRequest{},
		&entity.Conversation{},
		&entity.ConversationMember{},
		&entity.Message{},
		&entity.Image{},
	); err != nil {
		fmt.Printf("Could not migrate the database: %v\n", err)
		os.Exit(1)
	}

	storage := data.NewStorageManager(db)

	chatLogger, _ := appLogger.RegisterSubsystem("chat")
	liveLogger, _ := appLogger.RegisterSubsystem("live")
	serviceLogger, _ := appLogger.RegisterSubsystem("service")
	httpLogger, _ := appLogger.RegisterSubsystem("http")

	hub := live.NewHub()
	if config.Bridge.Enabled {
		bridgeLogger, _ := appLogger.RegisterSubsystem("bridge")
		bridge, err := live.NewBridge(hub, bridgeLogger)
		if err != nil {
			fmt.Printf("Could not create the live bridge: %v\n", err)
			os.Exit(1)
		}
		defer bridge.Close()
		if err := bridge.Bind(config.Bridge.PubAddr); err != nil {
			fmt.Printf("Could not bind the live bridge: %v\n", err)
			os.Exit(1)
		}
		if err := bridge.Connect(config.Bridge.PeerAddrs...); err != nil {
			fmt.Printf("Could not connect the live bridge: %v\n", err)
			os.Exit(1)
		}
		bridge.Attach()
		bridge.Run(ctx)
	}

	subscriptions := live.NewManager(
		hub,
		storage.GetConversationRepository(),
		storage.GetMessageRepository(),
		storage.GetAccountRepository(),
		liveLogger,
	)

	membership := chat.NewMembershipManager(storage.GetConversationRepository(), chatLogger)
	fanout := chat.NewFanoutEngine(membership, storage.GetMessageRepository(), hub, storage, chatLogger)

	authService := service.NewAuthService(storage.GetAccountRepository(), serviceLogger)
	directory := service.NewDirectoryService(storage.GetAccountRepository(), serviceLogger)
	gallery := service.NewGalleryService(storage.GetImageRepository(), serviceLogger)

	conversationAPI := chat.NewAPI(directory, storage.GetConversationRepository(), membership, fanout, subscriptions, chatLogger)

	inputManager := input.NewInputManager()
	inputManager.SetLogger(httpLogger)
	inputManager.SetAuthService(authService)
	inputManager.SetDirectoryService(directory)
	inputManager.SetGalleryService(gallery)
	inputManager.SetConversationAPI(conversationAPI)

	if err := inputManager.Run(ctx, &input.IptConfig{
		ServerPort:   config.HTTPServerPort,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		SecretKey:    config.SecretKey,
	}); err != nil {
		fmt.Printf("Server error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Shutting off...\n")
}
