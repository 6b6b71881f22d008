package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arabicstories/covergen/internal/batch"
)

func TestRootCmd_FlagDefaults(t *testing.T) {
	mode = batch.Mode{}
	newRootCmd()

	assert.False(t, mode.Test)
	assert.False(t, mode.All)
	assert.Equal(t, 0, mode.Level)
	assert.Equal(t, 0, mode.Start)
	assert.Equal(t, batch.DefaultCount, mode.Count)
}

func TestRootCmd_FlagParsing(t *testing.T) {
	mode = batch.Mode{}
	cmd := newRootCmd()

	require.NoError(t, cmd.ParseFlags([]string{"--start", "20", "--count", "5"}))
	assert.Equal(t, 20, mode.Start)
	assert.Equal(t, 5, mode.Count)

	mode = batch.Mode{}
	cmd = newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--level", "3"}))
	assert.Equal(t, 3, mode.Level)
}
