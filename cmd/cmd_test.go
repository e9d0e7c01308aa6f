package cmd

import (
	"bizdiag_backend/internal/util"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
server:
  mode: debug
jwt:
  secret: local-development-secret-0123456789
`

func TestTokenCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(testConfig), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", "--config", dir, "--user", "17", "--email", "owner@example.com"})
	require.NoError(t, rootCmd.Execute())

	claims, err := util.ParseJWT(strings.TrimSpace(out.String()), "local-development-secret-0123456789")
	require.NoError(t, err)
	assert.Equal(t, uint(17), claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
}

func TestTokenCommandRequiresUser(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(testConfig), 0o644))

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"token", "--config", dir, "--user", "0"})
	assert.Error(t, rootCmd.Execute())
}
