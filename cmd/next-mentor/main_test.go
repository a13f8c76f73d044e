package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ashwinyue/next-mentor/internal/service/persona"
)

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func isolatedEnv(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MENTOR_DATABASE_DRIVER", "sqlite")
	t.Setenv("MENTOR_DATABASE_PATH", filepath.Join(dir, "mentor.db"))
	t.Setenv("MENTOR_LOG_LEVEL", "error")
	return []string{"--config", filepath.Join(dir, "missing.yaml"), "--env-file", filepath.Join(dir, "missing.env")}
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "next-mentor dev\n", out)
}

func TestHashPasscodeCmd(t *testing.T) {
	for _, tc := range []struct {
		name  string
		stdin string
		args  []string
	}{
		{"argument", "", []string{"hash-passcode", "s3cret"}},
		{"stdin", "s3cret\n", []string{"hash-passcode"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runCmd(t, tc.stdin, tc.args...)
			require.NoError(t, err)
			hash := strings.TrimSpace(out)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
		})
	}
}

func TestMigrateCmd(t *testing.T) {
	flags := isolatedEnv(t)

	out, err := runCmd(t, "", append(flags, "migrate")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Schema up to date (sqlite ")

	// 重复执行不报错
	_, err = runCmd(t, "", append(flags, "migrate")...)
	require.NoError(t, err)
}

func TestDemoCmd(t *testing.T) {
	flags := isolatedEnv(t)

	out, err := runCmd(t, "", append(flags, "demo", "--list")...)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(persona.Names(), "\n")+"\n", out)

	out, err = runCmd(t, "", append(flags, "demo", "--mentor", "m1", "--persona", persona.Casual)...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 1)
	assert.Contains(t, lines[0], "(mentor m1, student demo_student)")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[1]), "1 "))

	_, err = runCmd(t, "", append(flags, "demo", "--persona", "Pirate")...)
	assert.ErrorIs(t, err, persona.ErrUnknownPersona)
}
