package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourcesCommand_ListsAllAdapters(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"sources"})

	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	for _, name := range []string{
		"axisdirect", "icicidirect", "fivepaisa", "kotak", "sharekhan", "moneycontrol",
	} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "https://")
}

func TestRunCommand_Flags(t *testing.T) {
	for _, flag := range []string{
		"sources", "output-dir", "retries", "timeout", "concurrency",
		"min-confidence", "no-delays", "db", "no-store",
	} {
		assert.NotNil(t, runCmd.Flags().Lookup(flag), "missing flag %s", flag)
	}
}
