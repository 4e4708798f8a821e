package credstore

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const fileFormatVersion = 1

type fileDocument struct {
	Version int               `json:"version"`
	Salt    string            `json:"salt"`
	Entries map[string]string `json:"entries"`
}

// FileOption customises a FileStore.
type FileOption func(*fileOptions)

type fileOptions struct {
	kdf    KDFParams
	logger *zap.Logger
}

// WithKDFParams overrides the key derivation cost.
func WithKDFParams(params KDFParams) FileOption {
	return func(o *fileOptions) { o.kdf = params }
}

// WithLogger sets the logger used to report self-healing.
func WithLogger(logger *zap.Logger) FileOption {
	return func(o *fileOptions) { o.logger = logger }
}

// FileStore is an encrypted credential file. Each value is sealed on its own so
// a damaged entry never prevents reading the others. Writes replace the file
// atomically.
type FileStore struct {
	mu      sync.Mutex
	path    string
	salt    []byte
	sealer  *Sealer
	entries map[string]string
	logger  *zap.Logger
}

// NewFileStore opens or creates the store at path. When passphrase is empty a
// random device key is kept next to the store in "<path>.key" with 0600 mode.
// An unreadable document is moved aside to "<path>.corrupt" and the store
// starts empty.
func NewFileStore(path, passphrase string, opts ...FileOption) (*FileStore, error) {
	o := fileOptions{kdf: DefaultKDFParams, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("credstore: create dir: %w", err)
	}

	secret := []byte(passphrase)
	if passphrase == "" {
		key, err := loadOrCreateDeviceKey(path + ".key")
		if err != nil {
			return nil, err
		}
		secret = key
	}

	doc, err := readDocument(path)
	if err != nil {
		o.logger.Warn("credential file unreadable; starting empty", zap.String("path", path), zap.Error(err))
		if renameErr := os.Rename(path, path+".corrupt"); renameErr != nil {
			return nil, fmt.Errorf("credstore: quarantine corrupt file: %w", renameErr)
		}
		doc = nil
	}

	var salt []byte
	entries := map[string]string{}
	if doc != nil {
		salt, err = base64.StdEncoding.DecodeString(doc.Salt)
		if err != nil || len(salt) < saltSize {
			o.logger.Warn("credential file salt invalid; starting empty", zap.String("path", path))
			salt = nil
		} else if doc.Entries != nil {
			entries = doc.Entries
		}
	}
	if salt == nil {
		if salt, err = NewSalt(); err != nil {
			return nil, err
		}
		entries = map[string]string{}
	}

	sealer, err := NewSealer(secret, salt, o.kdf)
	if err != nil {
		return nil, err
	}

	return &FileStore{
		path:    path,
		salt:    salt,
		sealer:  sealer,
		entries: entries,
		logger:  o.logger,
	}, nil
}

// Get decrypts the value stored under key.
func (f *FileStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	sealed, ok := f.entries[key]
	f.mu.Unlock()
	if !ok {
		return "", ErrNotFound
	}
	return f.sealer.Open(key, sealed)
}

// Set seals value under key and persists the file.
func (f *FileStore) Set(_ context.Context, key, value string) error {
	sealed, err := f.sealer.Seal(key, value)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.entries[key]
	f.entries[key] = sealed
	if err := f.flushLocked(); err != nil {
		if had {
			f.entries[key] = prev
		} else {
			delete(f.entries, key)
		}
		return err
	}
	return nil
}

// Delete removes key and persists the file.
func (f *FileStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[key]; !ok {
		return nil
	}
	delete(f.entries, key)
	return f.flushLocked()
}

func (f *FileStore) flushLocked() error {
	doc := fileDocument{
		Version: fileFormatVersion,
		Salt:    base64.StdEncoding.EncodeToString(f.salt),
		Entries: f.entries,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("credstore: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("credstore: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("credstore: write: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("credstore: chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("credstore: close: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("credstore: replace: %w", err)
	}
	return nil
}

func readDocument(path string) (*fileDocument, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Version != fileFormatVersion {
		return nil, fmt.Errorf("unsupported version %d", doc.Version)
	}
	return &doc, nil
}

func loadOrCreateDeviceKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil && len(key) >= 32 {
		return key, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("credstore: read device key: %w", err)
	}

	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("credstore: generate device key: %w", err)
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("credstore: write device key: %w", err)
	}
	return key, nil
}
