package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// EnvFile merges keys into a dotenv file, keeping unrelated entries.
type EnvFile struct {
	path string
	mu   sync.Mutex
}

func NewEnvFile(path string) *EnvFile {
	return &EnvFile{path: path}
}

func (f *EnvFile) Path() string {
	return f.path
}

// Update writes values into the file and the process environment.
func (f *EnvFile) Update(values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := godotenv.Read(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", f.path, err)
		}
		current = map[string]string{}
	}

	for k, v := range values {
		current[k] = v
	}

	if err := godotenv.Write(current, f.path); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}

	for k, v := range values {
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}
