package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	settings "boilerlog/internal/settings/domain"
	"boilerlog/internal/settings/infrastructure/memory"
)

func TestCurrentSeedsDefaultsOnFirstUse(t *testing.T) {
	service, err := NewService(memory.NewRepository())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	params, err := service.Current(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if params.Version != 1 {
		t.Fatalf("seeded version = %d, want 1", params.Version)
	}
	if rng := params.RangeFor("sulphite"); rng == nil || rng.Min != 20 {
		t.Fatalf("seeded defaults missing sulphite range: %+v", rng)
	}

	// Second call reads the stored blob instead of reseeding.
	again, err := service.Current(context.Background())
	if err != nil {
		t.Fatalf("current again: %v", err)
	}
	if again.Version != 1 {
		t.Fatalf("version after reread = %d, want 1", again.Version)
	}
}

func TestReplaceIncrementsVersion(t *testing.T) {
	service, err := NewService(memory.NewRepository())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	current, err := service.Current(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}

	current.Ranges["sulphite"] = settings.ParameterRange{Min: 25, Max: 55}
	saved, err := service.Replace(context.Background(), current)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if saved.Version != 2 {
		t.Fatalf("version = %d, want 2", saved.Version)
	}

	reread, err := service.Current(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if rng := reread.RangeFor("sulphite"); rng == nil || rng.Min != 25 {
		t.Fatalf("replacement not stored: %+v", rng)
	}
}

func TestReplaceStaleVersionConflicts(t *testing.T) {
	service, err := NewService(memory.NewRepository())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	first, err := service.Current(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	stale := first.Clone()

	if _, err := service.Replace(context.Background(), first); err != nil {
		t.Fatalf("replace: %v", err)
	}
	_, err = service.Replace(context.Background(), stale)
	if !errors.Is(err, settings.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestReplaceRejectsInvalidBlob(t *testing.T) {
	service, err := NewService(memory.NewRepository())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	bad := &settings.TestParameters{Ranges: map[string]settings.ParameterRange{" ": {}}}
	if _, err := service.Replace(context.Background(), bad); err == nil {
		t.Fatalf("invalid blob must be rejected")
	}
}

func TestLoadDefaults(t *testing.T) {
	params, err := LoadDefaults("")
	if err != nil {
		t.Fatalf("empty path: %v", err)
	}
	if rng := params.RangeFor("alkalinity"); rng == nil || rng.Max != 350 {
		t.Fatalf("built-in defaults missing alkalinity: %+v", rng)
	}

	path := filepath.Join(t.TempDir(), "defaults.yaml")
	content := []byte(`
ranges:
  sulphite: {min: 30, max: 60}
authorized_users:
  - {id: "1", name: "Site Lead"}
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write defaults file: %v", err)
	}

	params, err = LoadDefaults(path)
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if rng := params.RangeFor("sulphite"); rng == nil || rng.Min != 30 || rng.Max != 60 {
		t.Fatalf("file ranges not applied: %+v", rng)
	}
	if len(params.AuthorizedUsers) != 1 || params.AuthorizedUsers[0].Name != "Site Lead" {
		t.Fatalf("file users not applied: %+v", params.AuthorizedUsers)
	}
	// A ranges section replaces the whole map rather than merging.
	if rng := params.RangeFor("boilerPh"); rng != nil {
		t.Fatalf("file ranges must replace the whole map, got %+v", rng)
	}

	if _, err := LoadDefaults(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file must error")
	}
}
