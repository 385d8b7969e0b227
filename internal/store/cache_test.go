package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fingerprintPayload struct {
	ID     string  `json:"id"`
	Amount int64   `json:"amount"`
	Rate   float64 `json:"rate"`
}

func TestFingerprintDeterministic(t *testing.T) {
	a := fingerprintPayload{ID: "app-1", Amount: 45000000, Rate: 0.0725}
	b := fingerprintPayload{ID: "app-1", Amount: 45000000, Rate: 0.0725}

	fpA, err := Fingerprint(a)
	require.NoError(t, err)
	fpB, err := Fingerprint(b)
	require.NoError(t, err)

	assert.Equal(t, fpA, fpB, "Equal payloads should fingerprint identically")
	assert.Len(t, fpA, 64, "Fingerprint should be a hex-encoded sha256 digest")
}

func TestFingerprintChangesWithPayload(t *testing.T) {
	base := fingerprintPayload{ID: "app-1", Amount: 45000000, Rate: 0.0725}
	edited := base
	edited.Rate = 0.0726

	fpBase, err := Fingerprint(base)
	require.NoError(t, err)
	fpEdited, err := Fingerprint(edited)
	require.NoError(t, err)

	assert.NotEqual(t, fpBase, fpEdited, "Any payload edit should produce a new fingerprint")
}

func TestFingerprintMapOrderIndependent(t *testing.T) {
	// encoding/json sorts map keys, so insertion order must not matter.
	first := map[string]int{"alpha": 1, "beta": 2, "gamma": 3}
	second := map[string]int{"gamma": 3, "alpha": 1, "beta": 2}

	fpFirst, err := Fingerprint(first)
	require.NoError(t, err)
	fpSecond, err := Fingerprint(second)
	require.NoError(t, err)

	assert.Equal(t, fpFirst, fpSecond)
}

func TestFingerprintUnsupportedPayload(t *testing.T) {
	_, err := Fingerprint(make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal fingerprint payload")
}

func TestEvaluationKey(t *testing.T) {
	key, err := EvaluationKey(fingerprintPayload{ID: "app-1"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "dscr:eval:"), "Key should carry the namespace prefix, got %s", key)
	assert.Len(t, key, len("dscr:eval:")+64)
}
