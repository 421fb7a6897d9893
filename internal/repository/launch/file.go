package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-bridge/internal/config"
	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
)

// Repository hands one pending launch payload over to the host surface.
type Repository interface {
	Save(ctx context.Context, payload *domain.LaunchPayload) error
	Take(ctx context.Context) (*domain.LaunchPayload, error)
}

// FileRepository keeps the pending payload in a JSON file on disk.
// A newer payload replaces an older one that was never taken.
type FileRepository struct {
	// path is the filesystem location of the payload file.
	path string
	// mu protects concurrent access to the payload file.
	mu sync.Mutex
}

// ErrNotFound is returned when no payload is pending.
var ErrNotFound = errors.New("launch payload not found")

// errNilPayload is returned when Save receives nil.
var errNilPayload = errors.New("launch payload is nil")

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Save writes the payload, replacing any pending one.
func (r *FileRepository) Save(_ context.Context, payload *domain.LaunchPayload) error {
	if payload == nil {
		return errNilPayload
	}

	encoded, err := EncodePayload(payload)
	if err != nil {
		return err
	}

	marshalOptions := protojson.MarshalOptions{
		Multiline: true,
		Indent:    "  ",
	}

	data, err := marshalOptions.Marshal(encoded)
	if err != nil {
		return fmt.Errorf("marshal launch payload: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write launch payload: %w", err)
	}

	return nil
}

// Load reads the pending payload without removing it.
func (r *FileRepository) Load(_ context.Context) (*domain.LaunchPayload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}

// Take reads the pending payload and removes it, so each launch is handled once.
func (r *FileRepository) Take(_ context.Context) (*domain.LaunchPayload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	payload, err := r.load()
	if err != nil {
		return nil, err
	}

	if err = os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove launch payload: %w", err)
	}

	return payload, nil
}

func (r *FileRepository) load() (*domain.LaunchPayload, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read launch payload: %w", err)
	}

	var encoded structpb.Struct
	if err = protojson.Unmarshal(contents, &encoded); err != nil {
		return nil, fmt.Errorf("decode launch payload: %w", err)
	}

	return DecodePayload(&encoded)
}
