package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"space-adventure-service/internal/app"
	"space-adventure-service/internal/content"
	"space-adventure-service/internal/domain"
	pgstore "space-adventure-service/internal/infra/postgres"
	pgmigrations "space-adventure-service/internal/infra/postgres/migrations"
	infraredis "space-adventure-service/internal/infra/redis"
	"space-adventure-service/internal/logger"
	"space-adventure-service/internal/narrator"
	"space-adventure-service/internal/rounds"
)

func TestGalleryFeedsContentPoolEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	repo := infraredis.NewGalleryCache(redisClient, pgstore.NewGalleryStore(pool), 5*time.Minute)
	pools := content.NewProvider(repo)
	gallery := app.NewGallery(repo, pools)

	before, err := pools.Pool(ctx)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	if len(before) != len(content.Defaults()) {
		t.Fatalf("expected only default icons, got %d items", len(before))
	}

	saved, err := gallery.Append(ctx, domain.Character{
		Description: "mor antenli robot",
		ImageURL:    "data:image/png;base64,AA==",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	after, err := pools.Pool(ctx)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	if len(after) != len(before)+1 || after[0].ID != "char:"+saved.ID {
		t.Fatalf("expected the saved character first in the pool, got %+v", after[0])
	}

	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	games := app.NewGameService(sessions, pools, rounds.NewRegistry(), nil, app.Timing{}, logger.Nop())
	session, err := games.Start(ctx, app.StartOptions{Kind: domain.KindFindDifferent, Speaker: silent{}, Seed: 5})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer games.End(ctx, session.ID())
	if live, err := sessions.Live(ctx); err != nil || live != 1 {
		t.Fatalf("expected one live session in redis, got %d (%v)", live, err)
	}
}

type silent struct{}

func (silent) Speak(narrator.Utterance) {}
func (silent) Cancel(string)            {}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "space", "POSTGRES_PASSWORD": "spacepass", "POSTGRES_DB": "spacedb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://space:spacepass@%s:%s/spacedb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
