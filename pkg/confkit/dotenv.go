package confkit

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

const (
	EnvNoDotenv       = "HABITUAL_NO_DOTENV"
	EnvDotenvOverload = "HABITUAL_DOTENV_OVERLOAD"
	EnvDotenvFile     = "HABITUAL_ENV_FILE"
)

var dotenvOnce sync.Once

// LoadDotenvOnce loads .env files once per process. Existing environment
// variables win unless HABITUAL_DOTENV_OVERLOAD=1.
func LoadDotenvOnce() {
	dotenvOnce.Do(func() {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		LoadDotenv(wd)
	})
}

// LoadDotenv loads HABITUAL_ENV_FILE when set, otherwise every .env found
// walking up from start to the module root. Nearer files take precedence.
func LoadDotenv(start string) []string {
	if os.Getenv(EnvNoDotenv) == "1" {
		return nil
	}

	overload := os.Getenv(EnvDotenvOverload) == "1"
	load := func(path string) bool {
		if !fileExists(path) {
			return false
		}
		if overload {
			return godotenv.Overload(path) == nil
		}
		return godotenv.Load(path) == nil
	}

	if envFile := os.Getenv(EnvDotenvFile); envFile != "" {
		if load(envFile) {
			return []string{envFile}
		}
		return nil
	}

	var loaded []string
	dir := start
	for i := 0; i < 8; i++ {
		p := filepath.Join(dir, ".env")
		if load(p) {
			loaded = append(loaded, p)
		}
		if fileExists(filepath.Join(dir, "go.mod")) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return loaded
}
