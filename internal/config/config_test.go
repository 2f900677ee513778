package config

import (
	"testing"
	"time"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("POS_LOCK_TIMEOUT_MS", "750")
	t.Setenv("CART_TTL_HOURS", "2")

	cfg := Load()
	if !cfg.POS.InMemory() {
		t.Errorf("StoreDriver = %q, want memory", cfg.POS.StoreDriver)
	}
	if cfg.POS.LockTimeout != 750*time.Millisecond {
		t.Errorf("LockTimeout = %v", cfg.POS.LockTimeout)
	}
	if cfg.POS.CartTTL != 2*time.Hour {
		t.Errorf("CartTTL = %v", cfg.POS.CartTTL)
	}
	if cfg.POS.TxMaxRetries != 2 {
		t.Errorf("TxMaxRetries = %d, want default 2", cfg.POS.TxMaxRetries)
	}
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", Name: "pos", User: "u", Password: "p", SSLMode: "disable", Timezone: "UTC"}
	want := "host=db user=u password=p dbname=pos port=5432 sslmode=disable TimeZone=UTC"
	if got := c.DSN(); got != want {
		t.Errorf("DSN = %q", got)
	}
}
