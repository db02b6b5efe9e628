// Package testkit starts real backing services for integration tests.
package testkit

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
)

const IntegrationEnv = "RUN_INTEGRATION_TESTS"

// RequireIntegration skips unless RUN_INTEGRATION_TESTS is truthy.
func RequireIntegration(t testing.TB) {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv(IntegrationEnv))) {
	case "1", "true", "yes", "on":
		return
	}
	t.Skipf("integration test; set %s=1 to run", IntegrationEnv)
}

func RequireDocker(t testing.TB) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Skipf("docker unavailable: %v", r)
		}
	}()
	provider, err := testcontainers.NewDockerProvider()
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
		return
	}
	_ = provider.Close()
}

// Suite owns the containers started by one test and terminates them on
// cleanup.
type Suite struct {
	t   testing.TB
	ctx context.Context
}

func NewSuite(t testing.TB) *Suite {
	t.Helper()
	RequireIntegration(t)
	RequireDocker(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return &Suite{t: t, ctx: ctx}
}

func (s *Suite) Context() context.Context {
	return s.ctx
}

func (s *Suite) start(req testcontainers.ContainerRequest) testcontainers.Container {
	s.t.Helper()
	c, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		s.t.Fatalf("start %s: %v", req.Image, err)
	}
	s.t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = c.Terminate(ctx)
	})
	return c
}

// hostPort resolves the host side of a container port.
func (s *Suite) hostPort(c testcontainers.Container, port string) (string, string) {
	s.t.Helper()
	host, err := c.Host(s.ctx)
	if err != nil {
		s.t.Fatalf("container host: %v", err)
	}
	mapped, err := c.MappedPort(s.ctx, nat.Port(port))
	if err != nil {
		s.t.Fatalf("mapped port %s: %v", port, err)
	}
	return host, mapped.Port()
}
