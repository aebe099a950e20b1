package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSigningBytesCanonicalForm(t *testing.T) {
	m := Message{From: "a", To: "b", Content: "c", TimestampNanos: 7}
	require.Equal(t, "a|b|7|c", string(m.SigningBytes()))
}

func TestUnmarshalCoercesTimestamp(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{`{"from":"a","timestampNanos":123}`, 123},
		{`{"from":"a","timestampNanos":"456"}`, 456},
		{`{"from":"a","timestampNanos":"junk"}`, 0},
		{`{"from":"a","timestampNanos":{"nested":true}}`, 0},
		{`{"from":"a"}`, 0},
	}
	for _, tc := range cases {
		var m Message
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &m), tc.raw)
		require.Equal(t, tc.want, m.TimestampNanos, tc.raw)
	}
}

func TestTerminalStatuses(t *testing.T) {
	require.False(t, StatusPending.Terminal())
	require.False(t, StatusVerified.Terminal())
	for _, s := range []MessageStatus{StatusInvalidSignature, StatusUnverified, StatusUnsigned, StatusDecryptionFailed} {
		require.True(t, s.Terminal(), string(s))
	}
}
