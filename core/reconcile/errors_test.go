package reconcile

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrStorage, cause)

	assert.True(t, errors.Is(err, ErrStorage))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "storage error: connection reset", err.Error())
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, Wrap(ErrStorage, nil))
}

func TestWrap_KeepsExistingKind(t *testing.T) {
	inner := Wrap(ErrFetchFailed, errors.New("timeout"))
	outer := Wrap(ErrStorage, fmt.Errorf("register: %w", inner))

	assert.Equal(t, ErrFetchFailed, Kind(outer))
	assert.False(t, errors.Is(outer, ErrStorage))
}

func TestErrorf(t *testing.T) {
	err := Errorf(ErrNotFound, "feed %d", 42)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "not found: feed 42", err.Error())
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"Nil", nil, nil},
		{"Plain", errors.New("x"), nil},
		{"FetchFailed", Wrap(ErrFetchFailed, errors.New("x")), ErrFetchFailed},
		{"MalformedFeed", ErrMalformedFeed, ErrMalformedFeed},
		{"Nested", fmt.Errorf("outer: %w", Errorf(ErrNotFound, "feed 1")), ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}
