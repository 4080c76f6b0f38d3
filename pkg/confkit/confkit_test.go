package confkit_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"habitual-api/pkg/confkit"
)

func TestResolvePath(t *testing.T) {
	t.Setenv("HABITUAL_TEST_DIR", "overrides")

	tests := []struct {
		name string
		base string
		file string
		want string
	}{
		{name: "absolute path", base: "/base/dir", file: "/abs/llm.yaml", want: "/abs/llm.yaml"},
		{name: "relative path", base: "/base/dir", file: "llm.yaml", want: "/base/dir/llm.yaml"},
		{name: "relative with env", base: "/base/dir", file: "${HABITUAL_TEST_DIR}/llm.yaml", want: "/base/dir/overrides/llm.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, confkit.ResolvePath(tt.base, tt.file))
		})
	}
}

func TestBaseDir(t *testing.T) {
	require.Equal(t, "/etc/habitual", confkit.BaseDir("/etc/habitual/habitual.yaml"))
	require.Equal(t, "/", confkit.BaseDir("/habitual.yaml"))
	require.Equal(t, "etc", confkit.BaseDir("etc/habitual.yaml"))
}

func TestSectionHydrate(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		section := &confkit.Section[string]{}
		err := section.Hydrate("/base", func(string) (*string, error) {
			t.Fatal("loader should not be called")
			return nil, nil
		})
		require.NoError(t, err)
		require.False(t, section.Loaded())
	})

	t.Run("success", func(t *testing.T) {
		section := &confkit.Section[string]{File: "llm.yaml"}
		want := "loaded"
		err := section.Hydrate("/base", func(path string) (*string, error) {
			require.Equal(t, "/base/llm.yaml", path)
			return &want, nil
		})
		require.NoError(t, err)
		require.True(t, section.Loaded())
		require.Equal(t, "/base/llm.yaml", section.File)
		require.Equal(t, want, *section.Value)
	})

	t.Run("loader error", func(t *testing.T) {
		section := &confkit.Section[string]{File: "llm.yaml"}
		err := section.Hydrate("/base", func(string) (*string, error) {
			return nil, errors.New("boom")
		})
		require.EqualError(t, err, "boom")
		require.Equal(t, "llm.yaml", section.File)
		require.False(t, section.Loaded())
	})
}

func TestLoadFile(t *testing.T) {
	type sample struct {
		Name  string
		Level int `json:",default=3"`
	}
	t.Setenv("HABITUAL_TEST_NAME", "coach")

	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Name: ${HABITUAL_TEST_NAME}\n"), 0o600))

	cfg, err := confkit.LoadFile[sample](path, true)
	require.NoError(t, err)
	require.Equal(t, "coach", cfg.Name)
	require.Equal(t, 3, cfg.Level)

	_, err = confkit.LoadFile[sample](filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.Error(t, err)
}

func TestLoadDotenv(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "cmd", "signalctl")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module x\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("HABITUAL_T_ROOT=root\nHABITUAL_T_SHARED=root\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(nested, ".env"), []byte("HABITUAL_T_SHARED=nested\n"), 0o600))

	t.Setenv(confkit.EnvNoDotenv, "")
	t.Setenv(confkit.EnvDotenvFile, "")
	t.Setenv(confkit.EnvDotenvOverload, "")
	t.Setenv("HABITUAL_T_ROOT", "")
	t.Setenv("HABITUAL_T_SHARED", "")
	os.Unsetenv("HABITUAL_T_ROOT")
	os.Unsetenv("HABITUAL_T_SHARED")

	loaded := confkit.LoadDotenv(nested)
	require.Len(t, loaded, 2)
	require.Equal(t, "root", os.Getenv("HABITUAL_T_ROOT"))
	require.Equal(t, "nested", os.Getenv("HABITUAL_T_SHARED"))
}

func TestLoadDotenvDisabled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HABITUAL_T_OFF=1\n"), 0o600))
	t.Setenv(confkit.EnvNoDotenv, "1")

	require.Empty(t, confkit.LoadDotenv(dir))
	_, set := os.LookupEnv("HABITUAL_T_OFF")
	require.False(t, set)
}

func TestLoadDotenvExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.env")
	require.NoError(t, os.WriteFile(path, []byte("HABITUAL_T_EXPLICIT=yes\n"), 0o600))
	t.Setenv(confkit.EnvNoDotenv, "")
	t.Setenv(confkit.EnvDotenvFile, path)
	t.Setenv(confkit.EnvDotenvOverload, "1")
	t.Setenv("HABITUAL_T_EXPLICIT", "no")

	require.Equal(t, []string{path}, confkit.LoadDotenv(t.TempDir()))
	require.Equal(t, "yes", os.Getenv("HABITUAL_T_EXPLICIT"))
}
