package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"POSTGRES_DSN", "NATS_URL", "REDIS_ADDR", "REDIS_PASSWORD", "RESOURCE_BASE_URL", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("it falls back to defaults without a config file", func(t *testing.T) {
		clearEnv(t)
		t.Chdir(t.TempDir())

		cfg, err := LoadConfig("goal-service")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Service != "goal-service" || cfg.Bus.Type != "memory" || cfg.Cache.TTL != 10*time.Minute {
			t.Errorf("unexpected defaults %+v", cfg)
		}
		b := cfg.ResourceClient.Breaker
		if b.Name != "goal-service:resource-service" || b.MinRequests != 5 || b.FailureRatio != 0.5 || b.HalfOpenMaxRequests != 3 {
			t.Errorf("breaker defaults %+v", b)
		}
	})

	t.Run("it reads yaml and lets env override it", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		t.Chdir(dir)
		if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
			t.Fatal(err)
		}
		yaml := []byte(`
server:
  port: 9090
bus:
  partitions: 2
resource_client:
  timeout: 750ms
  breaker:
    open_timeout: 2s
recommendation:
  limit: 3
`)
		if err := os.WriteFile(filepath.Join(dir, "config", "event-service.yaml"), yaml, 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("NATS_URL", "nats://bus:4222")
		t.Setenv("RESOURCE_BASE_URL", "http://resources:8083/")

		cfg, err := LoadConfig("event-service")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Server.Port != 9090 || cfg.Bus.Partitions != 2 || cfg.Recommendation.Limit != 3 {
			t.Errorf("yaml not applied: %+v", cfg)
		}
		if cfg.ResourceClient.Timeout != 750*time.Millisecond || cfg.ResourceClient.Breaker.OpenTimeout != 2*time.Second {
			t.Errorf("durations = %s / %s", cfg.ResourceClient.Timeout, cfg.ResourceClient.Breaker.OpenTimeout)
		}
		if cfg.Bus.Type != "nats" || cfg.Bus.URL != "nats://bus:4222" {
			t.Errorf("bus = %+v", cfg.Bus)
		}
		if cfg.ResourceClient.BaseURL != "http://resources:8083" {
			t.Errorf("base url = %s", cfg.ResourceClient.BaseURL)
		}
		if cfg.Recommendation.WindowMonths != 3 {
			t.Errorf("window months = %d", cfg.Recommendation.WindowMonths)
		}
	})

	t.Run("it reports malformed yaml", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		t.Chdir(dir)
		_ = os.Mkdir(filepath.Join(dir, "config"), 0o755)
		_ = os.WriteFile(filepath.Join(dir, "config", "resource-service.yaml"), []byte("server: [unclosed"), 0o644)
		if _, err := LoadConfig("resource-service"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestDefault(t *testing.T) {
	cfg := Default("resource-service")
	if cfg.Server.Port != 8080 || cfg.Postgres.MaxOpenConns != 20 || cfg.Bus.PublishTimeout != 3*time.Second {
		t.Errorf("unexpected %+v", cfg)
	}
}
