package questdb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const pgWirePort = "8812/tcp"

// TestContainer wraps a QuestDB testcontainer and a client connected to it.
type TestContainer struct {
	Container testcontainers.Container
	Client    QuestDBClient
	Config    Config
}

// TestContainerConfig holds configuration for the test container
type TestContainerConfig struct {
	Image          string
	StartupTimeout time.Duration
}

// DefaultTestContainerConfig returns a default configuration
func DefaultTestContainerConfig() *TestContainerConfig {
	return &TestContainerConfig{
		Image:          "questdb/questdb:8.2.3",
		StartupTimeout: 2 * time.Minute,
	}
}

// NewTestContainer creates and starts a new QuestDB test container
func NewTestContainer(ctx context.Context, config *TestContainerConfig) (*TestContainer, error) {
	if config == nil {
		config = DefaultTestContainerConfig()
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        config.Image,
			ExposedPorts: []string{pgWirePort},
			WaitingFor:   wait.ForListeningPort(pgWirePort).WithStartupTimeout(config.StartupTimeout),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start questdb container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, pgWirePort)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	clientConfig := Config{
		Host:           host,
		Port:           port.Int(),
		Database:       "qdb",
		Username:       "admin",
		Password:       "quest",
		MaxConns:       4,
		MinConns:       1,
		ConnectTimeout: 10 * time.Second,
	}

	client, err := NewClient(ctx, clientConfig)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &TestContainer{
		Container: container,
		Client:    client,
		Config:    clientConfig,
	}, nil
}

// Close closes the client and terminates the container
func (tc *TestContainer) Close(ctx context.Context) error {
	if tc.Client != nil {
		tc.Client.Close()
	}

	if tc.Container != nil {
		if err := tc.Container.Terminate(ctx); err != nil {
			return fmt.Errorf("failed to terminate container: %w", err)
		}
	}

	return nil
}

// NewTestHelper starts a container for the duration of t and skips in short mode.
func NewTestHelper(t *testing.T) *TestContainer {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	tc, err := NewTestContainer(ctx, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := tc.Close(ctx); err != nil {
			t.Logf("Failed to close test container: %v", err)
		}
	})

	return tc
}
