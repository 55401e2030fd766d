package dotenv

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const ProdEnv = "prod"

// LoadDotEnvs loads the .env files following the convention:
// https://github.com/bkeepers/dotenv#what-other-env-files-can-i-use
// It only needs to be called once in the main function, other code can read
// env through os.Getenv('ENV_NAME') during runtime.
func LoadDotEnvs() error {
	loadDotEnvs("")
	return nil
}

func loadDotEnvs(rootPath string) {
	env := os.Getenv("CRYPTOPULSE_ENV")
	if env == "" {
		env = "dev"
	}

	// .env.[runtime_env].local has highest priority, usually contains API keys
	// and other sensitive information
	godotenv.Load(rootPath + ".env." + env + ".local")
	godotenv.Load(rootPath + ".env.local")
	// .env.[runtime_env] usually contains db location information
	godotenv.Load(rootPath + ".env." + env)
	// .env usually contains shared variables(which might be overwritten by envs above)
	godotenv.Load(rootPath + ".env")
}

// LoadDotEnvsInTests loads .env.test from the module root. Test binaries run
// with the package directory as cwd, so walk up to the directory that holds
// go.mod first. Have to write this helper function due to a known issue of
// godotenv: https://github.com/joho/godotenv/issues/43
func LoadDotEnvsInTests() error {
	dir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "fail to resolve working directory")
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			// Missing .env.test is fine, not every checkout carries one.
			godotenv.Load(filepath.Join(dir, ".env.test"))
			return nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return errors.New("no go.mod above working directory")
		}
		dir = parent
	}
}
