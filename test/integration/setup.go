package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/vncsmyrnk/pollfeed/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollfeed/internal/adapters/oauth/google"
	repo "github.com/vncsmyrnk/pollfeed/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollfeed/internal/core/services"
)

const testJWTSecret = "test-secret"

var handleSeq atomic.Int64

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	DBContainer testcontainers.Container
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	require.NoError(t, applyMigrations(db))

	clock := services.SystemClock{}

	userRepo := repo.NewUserRepository(db)
	pollRepo := repo.NewPollRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	commentRepo := repo.NewCommentRepository(db)
	followRepo := repo.NewFollowRepository(db)
	authRepo := repo.NewAuthRepository(db)

	authService := services.NewAuthService(userRepo, authRepo, google.NewVerifier(), []byte(testJWTSecret), "test-client-id", clock)

	router := handler.NewHandler(
		handler.NewAuthMiddleware([]byte(testJWTSecret)),
		handler.NewAuthHandler(authService, "", http.SameSiteLaxMode),
		handler.NewUserHandler(services.NewUserService(userRepo, clock)),
		handler.NewPollHandler(
			services.NewPollService(pollRepo, voteRepo, commentRepo, userRepo, clock),
			services.NewVoteService(pollRepo, voteRepo, userRepo, clock),
		),
		handler.NewCommentHandler(services.NewCommentService(commentRepo, pollRepo, userRepo, clock)),
		handler.NewFollowHandler(services.NewFollowService(followRepo, userRepo, clock)),
	)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// createUserAndToken inserts a fresh user and signs an access token for it.
func (app *TestApp) createUserAndToken(t *testing.T) (int64, string) {
	t.Helper()

	handle := fmt.Sprintf("user-%d", handleSeq.Add(1))
	var userID int64
	err := app.DB.QueryRow("INSERT INTO users (handle) VALUES ($1) RETURNING id", handle).Scan(&userID)
	require.NoError(t, err)

	return userID, app.signToken(t, userID)
}

func (app *TestApp) signToken(t *testing.T, userID int64) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"exp": time.Now().Add(15 * time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

// doJSON sends a request with an optional body and access token cookie.
func (app *TestApp) doJSON(t *testing.T, method, path, token string, body []byte) *http.Response {
	t.Helper()

	var reader *strings.Reader
	if body != nil {
		reader = strings.NewReader(string(body))
	} else {
		reader = strings.NewReader("")
	}

	req, err := http.NewRequest(method, app.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}
