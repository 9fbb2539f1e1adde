package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// clearEnv neutralizes overrides that may be set on the host.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range env {
		t.Setenv(name, "")
	}
	t.Setenv(EnvPath, "")
}

func TestLoadFrom_Defaults(t *testing.T) {
	clearEnv(t)
	s, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if s.Timeout != 30*time.Second || s.LogLevel != "warn" || s.VerifyTLS {
		t.Errorf("defaults = %+v", s)
	}
	if s.Redis.TTL != 8*time.Hour || s.Audit.MaxSizeMB != 10 || s.Audit.MaxBackups != 5 {
		t.Errorf("nested defaults = %+v %+v", s.Redis, s.Audit)
	}
	if !s.Permissions.Empty() {
		t.Errorf("Permissions = %+v, want empty", s.Permissions)
	}
}

func TestLoadFrom_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `afc_ip: 10.0.0.1
username: admin
timeout: 45s
verify_tls: true
redis:
  addr: localhost:6379
  db: 2
permissions:
  super_users: [root]
  user_groups:
    netops: [alice, bob]
  permissions:
    vrf.create: [netops]
    switch.reboot: [alice]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if s.Address != "10.0.0.1" || s.Username != "admin" || s.Timeout != 45*time.Second || !s.VerifyTLS {
		t.Errorf("settings = %+v", s)
	}
	if s.Redis.Addr != "localhost:6379" || s.Redis.DB != 2 {
		t.Errorf("Redis = %+v", s.Redis)
	}
	want := map[string][]string{
		"vrf.create":    {"netops"},
		"switch.reboot": {"alice"},
	}
	if diff := cmp.Diff(want, s.Permissions.Permissions); diff != "" {
		t.Errorf("permissions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"root"}, s.Permissions.SuperUsers); diff != "" {
		t.Errorf("super users mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")
	os.WriteFile(path, []byte("afc_ip: 10.0.0.1\nusername: admin\n"), 0o600)

	t.Setenv("AFC_IP", "10.9.9.9")
	t.Setenv("AFC_PASSWORD", "s3cret")
	t.Setenv("AFC_TIMEOUT", "5s")
	t.Setenv("AFC_VERIFY_TLS", "true")
	t.Setenv("AFC_TOKEN_CACHE_KEY", "k")

	s, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if s.Address != "10.9.9.9" || s.Username != "admin" || s.Password != "s3cret" {
		t.Errorf("settings = %+v", s)
	}
	if s.Timeout != 5*time.Second || !s.VerifyTLS || s.Redis.SealKey != "k" {
		t.Errorf("settings = %+v", s)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")
	os.WriteFile(path, []byte("afc_ip: [unterminated\n"), 0o600)

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() expected error for invalid YAML")
	}
}

func TestSaveTo_OmitsSecrets(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	s := &Settings{Address: "10.0.0.1", Username: "admin", Password: "hunter2", Token: "tok-abc123"}
	s.Redis.SealKey = "seal-key-xyz"
	s.Redis.Password = "redis-pw-456"

	if err := s.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, secret := range []string{"hunter2", "tok-abc123", "seal-key-xyz", "redis-pw-456"} {
		if strings.Contains(string(data), secret) {
			t.Errorf("saved file leaks %q:\n%s", secret, data)
		}
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.Address != "10.0.0.1" || loaded.Username != "admin" || loaded.Password != "" {
		t.Errorf("round trip = %+v", loaded)
	}
}

func TestSetGet(t *testing.T) {
	s := &Settings{}
	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{"afc_ip", "10.0.0.5", false},
		{"timeout", "1m0s", false},
		{"verify_tls", "true", false},
		{"redis.db", "3", false},
		{"audit.max_backups", "7", false},
		{"timeout", "soon", true},
		{"redis.db", "x", true},
		{"password", "pw", true},
		{"bogus", "1", true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := s.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got, err := s.Get(tt.key)
			if err != nil || got != tt.value {
				t.Errorf("Get(%q) = %q, %v; want %q", tt.key, got, err, tt.value)
			}
		})
	}
}

func TestKeys_AllGettable(t *testing.T) {
	s := &Settings{}
	for _, k := range Keys() {
		if _, err := s.Get(k); err != nil {
			t.Errorf("Get(%q) error = %v", k, err)
		}
	}
}

func TestStateDirAndClear(t *testing.T) {
	t.Setenv(EnvPath, filepath.Join("/tmp", "x", "settings.yaml"))
	s := &Settings{}
	if got := s.AuditPath(); got != filepath.Join("/tmp", "x", "audit.log") {
		t.Errorf("AuditPath() = %q", got)
	}
	s.StateDir = "/var/lib/afcctl"
	if got := s.AuditPath(); got != "/var/lib/afcctl/audit.log" {
		t.Errorf("AuditPath() = %q", got)
	}
	s.Clear()
	if s.StateDir != "" {
		t.Error("Clear() did not reset StateDir")
	}
}

func TestDefaultSettingsPath(t *testing.T) {
	t.Setenv(EnvPath, "")
	path := DefaultSettingsPath()
	if filepath.Base(path) != "settings.yaml" {
		t.Errorf("DefaultSettingsPath() = %q", path)
	}
}
