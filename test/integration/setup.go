package integration

import (
	"context"
	"testing"
	"time"

	"jewelbook/internal/config"
	"jewelbook/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a pool and the schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	pool, err := database.NewPoolFromURL(ctx, connStr, config.DatabaseConfig{
		MaxConnections:  20,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SetupTestRedis starts a Redis container and returns a connected client.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("failed to get redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("failed to ping redis: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return client
}

// SeedShop inserts a shop on plan and returns its id.
func SeedShop(t *testing.T, pool *pgxpool.Pool, plan string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO shops (name, plan, gst_rate) VALUES ('Test Jewellers', $1, 3.00) RETURNING id`,
		plan,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed shop: %v", err)
	}
	return id
}

// SeedMember adds a member with role and returns the user id.
func SeedMember(t *testing.T, pool *pgxpool.Pool, shopID uuid.UUID, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO shop_members (shop_id, user_id, role) VALUES ($1, $2, $3)`,
		shopID, userID, role,
	)
	if err != nil {
		t.Fatalf("failed to seed member: %v", err)
	}
	return userID
}

// EnableLoyalty turns on flat earning at ratio points per rupee.
func EnableLoyalty(t *testing.T, pool *pgxpool.Pool, shopID uuid.UUID, ratio string, minRedemption int) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO loyalty_settings (shop_id, enabled, earning_type, flat_ratio, min_redemption_points)
		 VALUES ($1, TRUE, 'flat', $2::numeric, $3)`,
		shopID, ratio, minRedemption,
	)
	if err != nil {
		t.Fatalf("failed to enable loyalty: %v", err)
	}
}
