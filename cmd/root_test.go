package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "migrate", "upload", "export-transfers", "import-transfers", "reconcile", "purge", "report"} {
		assert.Contains(t, names, want)
	}
}

func TestPurgeRequiresConfirmation(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"purge", "--month", "2024-05"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

func TestUploadRejectsBadMonth(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"upload", "--month", "május", "--unified", "x.csv"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM")
}

func TestUploadFlagsAreExclusive(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"upload", "--month", "2024-05", "--unified", "x.csv", "--file", "Galopp=g.csv"})

	assert.Error(t, root.Execute())
}

func TestMigrateStepsFlag(t *testing.T) {
	root := NewRootCmd()
	migrate, _, err := root.Find([]string{"migrate"})
	require.NoError(t, err)

	steps := migrate.Flags().Lookup("steps")
	require.NotNil(t, steps)
	assert.Equal(t, "0", steps.DefValue)
}
