package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/johnrirwin/fpviraq/internal/models"
)

// FileBackend keeps the list as <dir>/<namespace>.json
type FileBackend struct {
	path string
}

func NewFileBackend(dir, namespace string) *FileBackend {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &FileBackend{path: filepath.Join(dir, namespace+".json")}
}

func (b *FileBackend) Path() string {
	return b.path
}

// Load returns an empty list when the file does not exist yet
func (b *FileBackend) Load(_ context.Context) ([]models.Project, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Project{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", b.path, err)
	}

	var projects []models.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", b.path, err)
	}
	return projects, nil
}

// Save writes to a temp file and renames it over the old one
func (b *FileBackend) Save(_ context.Context, projects []models.Project) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}

	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode projects: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write projects: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write projects: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", b.path, err)
	}
	return nil
}

// MemoryBackend holds the list in process, for tests and ephemeral runs
type MemoryBackend struct {
	mu       sync.Mutex
	projects []models.Project
	LoadErr  error
	SaveErr  error
}

func NewMemoryBackend(projects ...models.Project) *MemoryBackend {
	return &MemoryBackend{projects: projects}
}

func (b *MemoryBackend) Load(_ context.Context) ([]models.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.LoadErr != nil {
		return nil, b.LoadErr
	}
	return append([]models.Project{}, b.projects...), nil
}

func (b *MemoryBackend) Save(_ context.Context, projects []models.Project) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.SaveErr != nil {
		return b.SaveErr
	}
	b.projects = append([]models.Project{}, projects...)
	return nil
}

// Saved returns what was last persisted
func (b *MemoryBackend) Saved() []models.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Project{}, b.projects...)
}

// RedisBackend stores the JSON list under a single key
type RedisBackend struct {
	client *redis.Client
	key    string
}

func NewRedisBackend(client *redis.Client, namespace string) *RedisBackend {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &RedisBackend{client: client, key: "vault:" + namespace}
}

func (b *RedisBackend) Load(ctx context.Context) ([]models.Project, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.Project{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", b.key, err)
	}

	var projects []models.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", b.key, err)
	}
	return projects, nil
}

func (b *RedisBackend) Save(ctx context.Context, projects []models.Project) error {
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to encode projects: %w", err)
	}
	if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", b.key, err)
	}
	return nil
}

var (
	_ Backend = (*FileBackend)(nil)
	_ Backend = (*MemoryBackend)(nil)
	_ Backend = (*RedisBackend)(nil)
)
