package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/vncsmyrnk/meettogether/internal/adapters/handler/http"
	repo "github.com/vncsmyrnk/meettogether/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/meettogether/internal/adapters/session"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
	"github.com/vncsmyrnk/meettogether/internal/core/services"
)

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Users       ports.UserRepository
	Sessions    *session.JWTVerifier
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
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

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := repo.Open(ctx, repo.DriverPQ, dbURL)
	require.NoError(t, err)
	require.NoError(t, repo.MigrateUp(ctx, db))

	planRepo := repo.NewPlanRepository(db)
	userRepo := repo.NewUserRepository(db)
	guestRepo := repo.NewGuestRepository(db)
	pollRepo := repo.NewPollRepository(db)

	identities := services.NewIdentityService(planRepo, guestRepo)
	sessions := session.NewJWTVerifier(userRepo, "test-secret")

	router := handler.NewHandler(handler.Handlers{
		Plan:         handler.NewPlanHandler(services.NewPlanService(planRepo)),
		Availability: handler.NewAvailabilityHandler(services.NewAvailabilityService(planRepo, repo.NewTimeblockRepository(db), identities)),
		Guest:        handler.NewGuestHandler(identities),
		Poll:         handler.NewPollHandler(services.NewPollService(planRepo, pollRepo, identities)),
		Vote:         handler.NewVoteHandler(services.NewVoteService(planRepo, pollRepo, guestRepo, repo.NewVoteRepository(db), identities)),
		User:         handler.NewUserHandler(),
	}, sessions, []string{"*"})

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Users:       userRepo,
		Sessions:    sessions,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) createUserAndToken(t *testing.T) (*domain.PlatformUser, string) {
	t.Helper()

	id := uuid.New()
	user := &domain.PlatformUser{
		ID:          id,
		Email:       fmt.Sprintf("user-%s@example.com", id),
		DisplayName: fmt.Sprintf("User %s", id.String()[:8]),
	}
	require.NoError(t, app.Users.Create(context.Background(), user))

	token, err := app.Sessions.Issue(user)
	require.NoError(t, err)
	return user, token
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}
