package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(app fiber.Router) error {
	s.loaded = true
	return s.err
}

func TestManager_LoadAll(t *testing.T) {
	feeds := &stubFeature{name: "feeds", enabled: true}
	off := &stubFeature{name: "off"}
	health := &stubFeature{name: "health", enabled: true}

	m := NewManager()
	m.Register(feeds)
	m.Register(off)
	m.Register(health)

	loaded, err := m.LoadAll(fiber.New())
	assert.NoError(t, err)
	assert.Equal(t, []string{"feeds", "health"}, loaded)
	assert.False(t, off.loaded)
	assert.Len(t, m.Features(), 3)
}

func TestManager_LoadAllStopsOnError(t *testing.T) {
	broken := &stubFeature{name: "broken", enabled: true, err: errors.New("boom")}
	after := &stubFeature{name: "after", enabled: true}

	m := NewManager()
	m.Register(broken)
	m.Register(after)

	loaded, err := m.LoadAll(fiber.New())
	assert.ErrorContains(t, err, "load feature broken")
	assert.Empty(t, loaded)
	assert.False(t, after.loaded)
}
