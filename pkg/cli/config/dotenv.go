package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultEnvFile is loaded when DOCDESK_ENV_FILE is not set
const DefaultEnvFile = ".env"

// LoadEnvFile sets environment variables from a dotenv file so that flag env
// sources can see them. Variables already set are kept and a missing file is ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to load env file", goerr.V(ConfigPathKey, path))
	}
	return nil
}
