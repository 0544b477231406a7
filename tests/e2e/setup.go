//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"ticket-hold/internal/events"
	"ticket-hold/internal/infra/db"
	"ticket-hold/internal/infra/readstore"
	"ticket-hold/internal/infra/repository"
	"ticket-hold/internal/pkg/clock"
	"ticket-hold/internal/pkg/config"
	"ticket-hold/internal/usecase/commands"
	"ticket-hold/internal/usecase/queries"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	postgresContainerOnce sync.Once
	postgresTestContainer testcontainers.Container

	testUser     = "test"
	testPassword = "testpass"
)

// RecordingPublisher captures lifecycle events instead of pushing them to a
// broker, so assertions can inspect exactly what a flow emitted.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.LifecycleEvent
}

func (p *RecordingPublisher) Publish(_ context.Context, event events.LifecycleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *RecordingPublisher) Events() []events.LifecycleEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.LifecycleEvent, len(p.events))
	copy(out, p.events)
	return out
}

func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// SharedSuite boots a per-suite database against the shared postgres
// container and wires the command/query stack with a manual clock.
type SharedSuite struct {
	suite.Suite
	Pool      *pgxpool.Pool
	Commands  commands.TicketCommands
	Queries   queries.TicketQueries
	Clock     *clock.MockClock
	Publisher *RecordingPublisher
	Hold      config.HoldConfig
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()

	info := startPostgresContainer(t)
	pool := prepareDatabase(t, info)

	s.Pool = pool
	s.Clock = clock.NewMockClock(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
	s.Publisher = &RecordingPublisher{}
	s.Hold = config.HoldConfig{Duration: 24 * time.Hour, SweepInterval: time.Minute}

	ticketReads := readstore.NewTicketReadStore(pool)
	zoneReads := readstore.NewZoneReadStore(pool)
	s.Queries = queries.NewTicketQueries(ticketReads, zoneReads)
	s.Commands = commands.NewTicketCommands(
		repository.NewTicketRepository(),
		s.Publisher,
		s.Queries,
		pool,
		s.Clock,
		s.Hold,
	)
}

func (s *SharedSuite) SetupTest() {
	ctx := context.Background()
	_, err := s.Pool.Exec(ctx, "TRUNCATE reservations, tickets, notifications, zones CASCADE")
	require.NoError(s.T(), err)
	s.Publisher.Reset()
	s.Clock.Set(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
}

// CreateZone seeds a zone row and returns its id.
func (s *SharedSuite) CreateZone(capacity int) uuid.UUID {
	id := uuid.New()
	_, err := s.Pool.Exec(context.Background(),
		"INSERT INTO zones (id, name, capacity, price) VALUES ($1, $2, $3, $4)",
		id, "zone-"+id.String()[:8], capacity, decimal.NewFromInt(50))
	require.NoError(s.T(), err)
	return id
}

func startPostgresContainer(t *testing.T) nat.PortBinding {
	t.Helper()

	postgresContainerOnce.Do(func() {
		ctx := context.Background()
		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "postgres:16-alpine",
				ExposedPorts: []string{"5432/tcp"},
				Env: map[string]string{
					"POSTGRES_USER":     testUser,
					"POSTGRES_PASSWORD": testPassword,
					"POSTGRES_DB":       "postgres",
				},
				WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
			},
			Started: true,
		})
		if err != nil {
			t.Fatalf("failed to start postgres container: %v", err)
		}
		postgresTestContainer = container
	})

	host, err := postgresTestContainer.Host(context.Background())
	require.NoError(t, err)
	port, err := postgresTestContainer.MappedPort(context.Background(), "5432/tcp")
	require.NoError(t, err)

	return nat.PortBinding{HostIP: host, HostPort: port.Port()}
}

func prepareDatabase(t *testing.T, info nat.PortBinding) *pgxpool.Pool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	dbName := "testdb_" + strings.ReplaceAll(uuid.New().String(), "-", "")

	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		testUser, testPassword, info.HostIP, info.HostPort)
	adminPool, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err)
	defer adminPool.Close()

	_, err = adminPool.Exec(ctx, "CREATE DATABASE "+dbName)
	require.NoError(t, err)

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()

		cleanupPool, err := pgxpool.New(cleanupCtx, adminDSN)
		if err != nil {
			slog.Warn("failed to connect for database cleanup", "database", dbName, "error", err.Error())
			return
		}
		defer cleanupPool.Close()

		if _, err := cleanupPool.Exec(cleanupCtx, "DROP DATABASE IF EXISTS "+dbName); err != nil {
			slog.Warn("failed to drop test database", "database", dbName, "error", err.Error())
		}
	})

	dbConfig := config.DBConfig{
		Host:     info.HostIP,
		Port:     info.HostPort,
		User:     testUser,
		Password: testPassword,
		DBName:   dbName,
		SSLMode:  "disable",
	}

	pool, _, err := db.Connect(dbConfig)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, applyMigrations(ctx, pool))
	return pool
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationFiles := []string{
		"migrations/0001_init.sql",
	}

	for _, file := range migrationFiles {
		// Resolve relative to the package dir `go test` runs in.
		var (
			sqlContent []byte
			readErr    error
		)
		candidates := []string{
			file,
			filepath.Join("..", file),
			filepath.Join("..", "..", file),
			filepath.Join("..", "..", "..", file),
		}
		for _, cand := range candidates {
			sqlContent, readErr = os.ReadFile(cand)
			if readErr == nil {
				break
			}
		}
		if readErr != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, readErr)
		}

		if _, err := pool.Exec(ctx, string(sqlContent)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
	}

	return nil
}
