package ui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetVerbose(t *testing.T) {
	t.Cleanup(func() { SetVerbose(false) })

	require.False(t, Verbose())
	SetVerbose(true)
	require.True(t, Verbose())
	SetVerbose(false)
	require.False(t, Verbose())
}
