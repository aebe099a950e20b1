package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBackoffSequence(t *testing.T) {
	b := NewBackoff(5*time.Second, 60*time.Second)
	want := []time.Duration{
		5 * time.Second,
		10 * time.Second,
		20 * time.Second,
		40 * time.Second,
		60 * time.Second,
		60 * time.Second,
		60 * time.Second,
	}
	for i, w := range want {
		require.Equal(t, w, b.Next(), "interval %d", i)
	}
}

func TestBackoffReset(t *testing.T) {
	b := NewBackoff(5*time.Second, 60*time.Second)
	b.Next()
	b.Next()
	b.Reset()
	require.Equal(t, 5*time.Second, b.Next())
}
