package rd

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestNewClientInMemory(t *testing.T) {
	client, err := NewClient(Config{InMemory: true})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	if err := client.Ping(t.Context()).Err(); err != nil {
		t.Fatalf("ping in-memory redis: %v", err)
	}

	other, err := NewClient(Config{InMemory: true})
	if err != nil {
		t.Fatalf("NewClient(second): %v", err)
	}
	defer other.Close()
	if got, want := other.Options().Addr, client.Options().Addr; got != want {
		t.Fatalf("in-memory server not shared: got=%s want=%s", got, want)
	}
}

func TestNewClientUsesConfiguredAddr(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := NewClient(Config{Addr: server.Addr()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	if err := client.Set(t.Context(), "k", "v", time.Minute).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, err := server.Get("k"); err != nil || got != "v" {
		t.Fatalf("server value: got=%q err=%v", got, err)
	}
}

func TestOptionsApplyDefaults(t *testing.T) {
	opts := Config{}.Options()
	if opts.Addr != "127.0.0.1:6379" {
		t.Fatalf("addr: got=%q", opts.Addr)
	}
	if opts.Network != "tcp" {
		t.Fatalf("network: got=%q", opts.Network)
	}
	if opts.DialTimeout != 5*time.Second {
		t.Fatalf("dial timeout: got=%s", opts.DialTimeout)
	}
	if opts.PoolSize != 10 {
		t.Fatalf("pool size: got=%d", opts.PoolSize)
	}
}
