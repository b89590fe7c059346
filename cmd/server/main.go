package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/pollfeed/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollfeed/internal/adapters/oauth/google"
	"github.com/vncsmyrnk/pollfeed/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollfeed/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Warn("JWT_SECRET not set")
	}
	googleClientID := os.Getenv("GOOGLE_CLIENT_ID")

	clock := services.SystemClock{}

	userRepo := postgres.NewUserRepository(db)
	pollRepo := postgres.NewPollRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	commentRepo := postgres.NewCommentRepository(db)
	followRepo := postgres.NewFollowRepository(db)
	authRepo := postgres.NewAuthRepository(db)

	userService := services.NewUserService(userRepo, clock)
	pollService := services.NewPollService(pollRepo, voteRepo, commentRepo, userRepo, clock)
	voteService := services.NewVoteService(pollRepo, voteRepo, userRepo, clock)
	commentService := services.NewCommentService(commentRepo, pollRepo, userRepo, clock)
	followService := services.NewFollowService(followRepo, userRepo, clock)
	authService := services.NewAuthService(userRepo, authRepo, google.NewVerifier(), []byte(jwtSecret), googleClientID, clock)

	handler := http.NewHandler(
		http.NewAuthMiddleware([]byte(jwtSecret)),
		http.NewAuthHandler(authService, os.Getenv("COOKIE_DOMAIN"), stdhttp.SameSiteLaxMode),
		http.NewUserHandler(userService),
		http.NewPollHandler(pollService, voteService),
		http.NewCommentHandler(commentService),
		http.NewFollowHandler(followService),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &stdhttp.Server{Addr: "0.0.0.0:" + port, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("listening", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	slog.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func dbConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}
