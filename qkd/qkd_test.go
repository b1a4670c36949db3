package qkd

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownProtocol(t *testing.T) {
	_, err := New(Protocol("E91"), Options{})
	require.Error(t, err)
}

func TestNewRejectsBadSampleProportion(t *testing.T) {
	for _, prop := range []float64{-0.1, 1.5} {
		_, err := New(BB84, Options{SampleProportion: prop})
		require.Error(t, err, "proportion %v", prop)
	}
}

func TestSampleProportionShiftsKeyLength(t *testing.T) {
	const n = 4000
	small, err := New(BB84, Options{
		Rand:             rand.New(rand.NewSource(5)),
		SampleProportion: 0.25,
	})
	require.NoError(t, err)
	res, err := small.Run(n, 0)
	require.NoError(t, err)
	// Sifting keeps ~n/2; sampling a quarter of that leaves ~3n/8 for key.
	require.InDelta(t, 0.375, float64(res.KeyLength)/n, 0.03)
}

func TestRunHelpers(t *testing.T) {
	tcs := []struct {
		name string
		run  func(int, float64) (Result, error)
		p    Protocol
	}{
		{name: "BB84", run: RunBB84, p: BB84},
		{name: "SixState", run: RunSixState, p: SixState},
		{name: "B92", run: RunB92, p: B92},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			res, err := tc.run(1000, 0)
			require.NoError(t, err)
			require.Equal(t, tc.p, res.Protocol)
			require.Equal(t, 1000, res.NumQubits)
			require.True(t, res.Secure)
			require.Greater(t, res.KeyLength, 0)
		})
	}
}

func TestRunHelpersZeroQubits(t *testing.T) {
	res, err := RunBB84(0, 0)
	require.NoError(t, err)
	require.False(t, res.Secure)
	require.Zero(t, res.KeyLength)
	require.Equal(t, float64(QBERSentinel), res.QBER)
}

func TestProtocols(t *testing.T) {
	require.Equal(t, []Protocol{BB84, SixState, B92}, Protocols())
}
