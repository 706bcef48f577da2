package v1

import (
	"context"
	"database/sql"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"homepro/internal/config"
	"homepro/internal/database"
	"homepro/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type stubDB struct{}

func (stubDB) Ping(context.Context) error { return nil }
func (stubDB) Close() error               { return nil }

func (stubDB) Exec(context.Context, string, ...any) (int64, error) { return 1, nil }

func (stubDB) Query(context.Context, string, ...any) (database.Rows, error) {
	return stubRows{}, nil
}

func (stubDB) QueryRow(context.Context, string, ...any) database.Row { return stubRow{} }

func (stubDB) Begin(context.Context) (database.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (stubDB) SQLDB() *sql.DB { return nil }

type stubRows struct{}

func (stubRows) Close()            {}
func (stubRows) Next() bool        { return false }
func (stubRows) Scan(...any) error { return sql.ErrNoRows }
func (stubRows) Err() error        { return nil }

type stubRow struct{}

func (stubRow) Scan(...any) error { return sql.ErrNoRows }

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware().Middleware())

	cfg := config.Config{
		JWT: config.JWTConfig{
			AccessSecret:     "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessExpiresIn:  time.Minute,
			RefreshExpiresIn: time.Hour,
		},
	}

	Register(app.Group("/api/v1"), Deps{Config: cfg, DB: stubDB{}})
	return app
}

func TestJobBrowsingIsPublic(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/jobs", nil))
	if err != nil {
		t.Fatalf("list jobs: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("GET /jobs without a token = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/jobs/"+uuid.NewString(), nil))
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if resp.StatusCode == fiber.StatusUnauthorized {
		t.Fatal("GET /jobs/:id must not require a token")
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("GET /jobs/:id for unknown id = %d, want %d", resp.StatusCode, fiber.StatusNotFound)
	}
}

func TestJobWritesRequireAuth(t *testing.T) {
	app := newTestApp()

	for _, tc := range []struct {
		method string
		path   string
	}{
		{method: "POST", path: "/api/v1/jobs"},
		{method: "GET", path: "/api/v1/jobs/mine"},
		{method: "PATCH", path: "/api/v1/jobs/" + uuid.NewString() + "/status"},
		{method: "GET", path: "/api/v1/jobs/" + uuid.NewString() + "/bids"},
	} {
		resp, err := app.Test(httptest.NewRequest(tc.method, tc.path, nil))
		if err != nil {
			t.Fatalf("%s %s: %v", tc.method, tc.path, err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("%s %s without a token = %d, want %d", tc.method, tc.path, resp.StatusCode, fiber.StatusUnauthorized)
		}
	}
}
