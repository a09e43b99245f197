package params

import "testing"

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.DefaultDepth != 20 {
		t.Errorf("default depth = %d", cfg.Server.DefaultDepth)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("BOOKD_ADDR", ":9999")
	t.Setenv("BOOKD_ALLOWED_ORIGINS", "http://a,http://b")
	t.Setenv("BOOKD_DEFAULT_DEPTH", "5")
	t.Setenv("LOG_FILE", "/tmp/bookd.log")

	cfg := LoadFromEnv("")
	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "http://b" {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Server.DefaultDepth != 5 {
		t.Errorf("depth = %d", cfg.Server.DefaultDepth)
	}
	if cfg.Log.File != "/tmp/bookd.log" {
		t.Errorf("log file = %q", cfg.Log.File)
	}
}

func TestLoadFromEnvBadDepthIgnored(t *testing.T) {
	t.Setenv("BOOKD_DEFAULT_DEPTH", "not-a-number")
	cfg := LoadFromEnv("")
	if cfg.Server.DefaultDepth != 20 {
		t.Errorf("depth = %d, want default 20", cfg.Server.DefaultDepth)
	}
}
