package root

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_RegistersPersistentFlags(t *testing.T) {
	Init()

	userFlag := Cmd.PersistentFlags().Lookup("user")
	require.NotNil(t, userFlag)
	assert.Equal(t, "default", userFlag.DefValue)

	assert.NotNil(t, Cmd.PersistentFlags().Lookup("db"))
	assert.NotNil(t, Cmd.PersistentFlags().Lookup("output"))
}

func TestLogger_WrapsSharedLogger(t *testing.T) {
	assert.NotNil(t, Logger())
}
