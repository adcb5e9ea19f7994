package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment variable read by LoadEnv.
const EnvPrefix = "STEPCOUNT"

// Env holds CLI defaults taken from the environment. Command-line flags
// override them.
type Env struct {
	HARRoot    string  `envconfig:"HAR_ROOT" default:"UCI HAR Dataset"`
	Split      string  `envconfig:"SPLIT" default:"train"`
	Subject    int     `envconfig:"SUBJECT" default:"5"`
	Activity   int     `envconfig:"ACTIVITY" default:"1"`
	SampleRate float64 `envconfig:"SAMPLE_RATE" default:"50"`
	Tuning     string  `envconfig:"TUNING"`
	Verbose    bool    `envconfig:"VERBOSE" default:"false"`
}

// LoadEnv reads STEPCOUNT_* variables, after loading any of the given .env
// files that exist. Variables already set in the process environment take
// precedence over the files. A missing file is skipped; an unreadable or
// malformed one is an error.
func LoadEnv(dotenv ...string) (*Env, error) {
	for _, path := range dotenv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
