package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusconnect/backend/internal/auth"
	"github.com/campusconnect/backend/internal/config"
	"github.com/campusconnect/backend/internal/database"
	postgresrepo "github.com/campusconnect/backend/internal/repository/postgres"
	"github.com/campusconnect/backend/internal/service"
	"github.com/campusconnect/backend/internal/transport/http/handlers"
	"github.com/campusconnect/backend/internal/transport/http/middleware"
	"github.com/campusconnect/backend/internal/transport/ws"
)

func main() {
	cfg := config.Load()

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	rdb, err := database.ConnectRedis(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer rdb.Close()
	log.Println("Connected to redis")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	roomRepo := postgresrepo.NewRoomRepo(pool)
	messageRepo := postgresrepo.NewMessageRepo(pool)

	// Identity verifier, shared by REST middleware and WS handshake
	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.JWTTTL)

	// Services
	authService := service.NewAuthService(userRepo, verifier)
	userService := service.NewUserService(userRepo)
	roomService := service.NewRoomService(roomRepo, userRepo)
	messageService := service.NewMessageService(messageRepo, roomRepo)

	// Real-time gateway; the hub and message service reference each
	// other, so both are wired after construction.
	hub := ws.NewHub()
	hub.SetMessageSender(messageService)
	messageService.SetNotifier(ws.NewHubNotifier(hub))
	go hub.Run()
	defer hub.Stop()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	chatHandler := handlers.NewChatHandler(roomService, messageService)

	authMW := middleware.Auth(verifier)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Protected - Users
	mux.Handle("GET /api/users/search", authMW(http.HandlerFunc(userHandler.Search)))
	mux.Handle("GET /api/users/{id}", authMW(http.HandlerFunc(userHandler.Get)))

	// Protected - Chat
	mux.Handle("GET /api/chat/rooms", authMW(http.HandlerFunc(chatHandler.ListRooms)))
	mux.Handle("POST /api/chat/rooms/direct", authMW(http.HandlerFunc(chatHandler.CreateDirectRoom)))
	mux.Handle("POST /api/chat/rooms/group", authMW(http.HandlerFunc(chatHandler.CreateGroupRoom)))
	mux.Handle("GET /api/chat/rooms/{id}/messages", authMW(http.HandlerFunc(chatHandler.ListMessages)))
	mux.Handle("POST /api/chat/rooms/{id}/messages", authMW(http.HandlerFunc(chatHandler.SendMessage)))
	mux.Handle("PUT /api/chat/messages/{id}", authMW(http.HandlerFunc(chatHandler.EditMessage)))
	mux.Handle("DELETE /api/chat/messages/{id}", authMW(http.HandlerFunc(chatHandler.DeleteMessage)))

	// Real-time channel (authenticates its own handshake)
	mux.Handle("GET /ws", ws.ServeWS(hub, verifier))

	rateLimit := middleware.RateLimit(rdb, cfg.RateLimitMax, cfg.RateLimitWindow)
	handler := middleware.CORS(cfg.CORSOrigin)(rateLimit(mux))

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
