package theme_test

import (
	"testing"

	"github.com/Vinoth-46/isai-backend/internal/domain/theme"
	"github.com/Vinoth-46/isai-backend/internal/infra/storage"
)

func TestDefaultTheme(t *testing.T) {
	s := theme.NewStore(storage.NewMemoryStore())

	if s.Current() != theme.Dark {
		t.Errorf("expected default dark, got %q", s.Current())
	}
}

func TestToggle(t *testing.T) {
	s := theme.NewStore(storage.NewMemoryStore())

	if got := s.Toggle(); got != theme.Light {
		t.Errorf("expected light after toggle, got %q", got)
	}
	if got := s.Toggle(); got != theme.Dark {
		t.Errorf("expected dark after second toggle, got %q", got)
	}
}

func TestThemePersists(t *testing.T) {
	store := storage.NewMemoryStore()

	s := theme.NewStore(store)
	s.Toggle() // dark -> light

	restored := theme.NewStore(store)
	if restored.Current() != theme.Light {
		t.Errorf("expected restored light theme, got %q", restored.Current())
	}
}

func TestSetIgnoresUnknownValue(t *testing.T) {
	s := theme.NewStore(storage.NewMemoryStore())

	s.Set(theme.Theme("sepia"))
	if s.Current() != theme.Dark {
		t.Errorf("expected unknown theme ignored, got %q", s.Current())
	}

	s.Set(theme.Light)
	if s.Current() != theme.Light {
		t.Errorf("expected light, got %q", s.Current())
	}
}

func TestCorruptPersistedValueFallsBack(t *testing.T) {
	store := storage.NewMemoryStore()
	store.Set(storage.KeyTheme, "neon")

	s := theme.NewStore(store)
	if s.Current() != theme.Dark {
		t.Errorf("expected fallback to default, got %q", s.Current())
	}
}
