package main

import (
	"bytes"
	"testing"

	"hilanderia-pos/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintWords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printWords(&buf, "21.50"))
	assert.Equal(t, "S/ 21.50\nVEINTIUNO SOLES CON 50/100\n", buf.String())

	assert.ErrorIs(t, printWords(&buf, "-3"), apperr.ErrInvalidAmount)
}

func TestCommandTree(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"import", "customers"})
	require.NoError(t, err)
	assert.Equal(t, "customers [file.xlsx]", cmd.Use)

	assert.NotNil(t, seedStaffCmd.Flags().Lookup("profile"))
}
