package main

import (
	"log"
	"time"

	"github.com/techagentng/messaging/config"
	"github.com/techagentng/messaging/db"
	"github.com/techagentng/messaging/mailingservices"
	"github.com/techagentng/messaging/server"
	"github.com/techagentng/messaging/services"
	"github.com/techagentng/messaging/services/ratelimit"
	"github.com/techagentng/messaging/services/ws"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init(conf)

	gormDB := db.GetDB(conf)
	if err := db.SeedRoles(gormDB.DB); err != nil {
		log.Fatalf("error seeding roles: %v", err)
	}

	store := db.NewStore(gormDB.DB)
	txManager := db.NewTxManager(gormDB)

	hub := ws.NewHub()
	triggers := services.NewTriggerEngine()
	policy := services.NewAccessPolicy()

	authRepo := db.NewAuthRepo(gormDB)
	authService := services.NewAuthService(authRepo, txManager, triggers, mailgunClient, conf)
	conversationService := services.NewConversationService(store, policy)
	messageService := services.NewMessageService(store, txManager, policy, triggers, hub)
	notificationService := services.NewNotificationService(store)

	messageLimiter := ratelimit.New(conf.MessageRateLimit, time.Duration(conf.MessageRateWindow)*time.Second)

	s := &server.Server{
		Config:              conf,
		Mail:                mailgunClient,
		AuthRepository:      authRepo,
		AuthService:         authService,
		ConversationService: conversationService,
		MessageService:      messageService,
		NotificationService: notificationService,
		MessageLimiter:      messageLimiter,
		Hub:                 hub,
	}

	s.Start()
}
