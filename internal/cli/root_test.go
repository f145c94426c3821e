package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	root := NewRoot()
	for _, name := range []string{"serve", "migrate", "user", "availability", "consume"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
	create, _, err := root.Find([]string{"user", "create"})
	require.NoError(t, err)
	assert.Equal(t, "create", create.Name())
}

func TestAvailabilityRejectsBadDate(t *testing.T) {
	root := NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"availability", "--date", "tonight"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RFC 3339")
}

func TestUserCreateRequiresFlags(t *testing.T) {
	root := NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"user", "create", "--name", "Ann"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}
