// ABOUTME: Charm KV client wrapper implementing the gymlog Repository.
// ABOUTME: Provides thread-safe initialization and automatic cloud sync.
package charm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/gymlog/internal/storage"
)

const (
	// DBName is the Charm KV database name.
	DBName = "gymlog"

	// DefaultHost is the Charm server used when none is configured.
	DefaultHost = "charm.2389.dev"

	RoutinePrefix    = "routine:"
	ExercisePrefix   = "exercise:"
	WorkoutPrefix    = "workout:"
	WorkoutSetPrefix = "workout_set:"
)

// store is the subset of *kv.KV the client uses.
type store interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Reset() error
	Close() error
}

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// Client is the Charm KV Repository.
type Client struct {
	kv       store
	autoSync bool
	logger   *log.Logger
	mu       sync.RWMutex
}

var _ storage.Repository = (*Client)(nil)

// InitClient initializes the global Charm client against host.
// Thread-safe; can be called multiple times.
func InitClient(host string, logger *log.Logger) (*Client, error) {
	clientOnce.Do(func() {
		if err := SetHost(host); err != nil {
			clientErr = err
			return
		}

		db, err := kv.OpenWithDefaults(DBName)
		if err != nil {
			clientErr = fmt.Errorf("open charm kv (is another gymlog process running?): %w", err)
			return
		}

		globalClient = newClient(db, logger)

		// Pull remote data on startup
		if err := db.Sync(); err != nil {
			globalClient.logger.Warn("initial sync failed", "err", err)
		}
	})

	return globalClient, clientErr
}

// SetHost points the Charm libraries at host, or DefaultHost when empty.
func SetHost(host string) error {
	if host == "" {
		host = DefaultHost
	}
	return os.Setenv("CHARM_HOST", host)
}

func newClient(s store, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{kv: s, autoSync: true, logger: logger}
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.Sync()
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// Wipe deletes every gymlog record and syncs the deletions to Charm Cloud.
// It returns the number of keys removed.
func (c *Client) Wipe() (int, error) {
	deleted := 0
	err := c.batch(func(tx *writer) error {
		for _, prefix := range []string{WorkoutSetPrefix, WorkoutPrefix, ExercisePrefix, RoutinePrefix} {
			keys, err := c.keysByPrefix(prefix)
			if err != nil {
				return fmt.Errorf("wipe: %w", err)
			}
			for _, key := range keys {
				if err := tx.delete(key); err != nil {
					return fmt.Errorf("wipe %s: %w", key, err)
				}
				deleted++
			}
		}
		return nil
	})
	return deleted, err
}

// syncIfEnabled calls Sync if autoSync is enabled. Caller holds mu.
func (c *Client) syncIfEnabled() {
	if c.autoSync {
		if err := c.kv.Sync(); err != nil {
			c.logger.Warn("sync after write failed", "err", err)
		}
	}
}

// batch runs fn with exclusive write access and syncs once afterwards.
func (c *Client) batch(fn func(tx *writer) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx := &writer{kv: c.kv}
	err := fn(tx)
	if tx.writes > 0 {
		c.syncIfEnabled()
	}
	return err
}

// writer records writes made inside a batch.
type writer struct {
	kv     store
	writes int
}

func (w *writer) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := w.kv.Set([]byte(key), data); err != nil {
		return err
	}
	w.writes++
	return nil
}

func (w *writer) delete(key string) error {
	if err := w.kv.Delete([]byte(key)); err != nil {
		return err
	}
	w.writes++
	return nil
}

// exists reports whether key is present.
func (w *writer) exists(key string) (bool, error) {
	_, err := w.kv.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// keysByPrefix returns all keys matching prefix. Caller holds mu.
func (c *Client) keysByPrefix(prefix string) ([]string, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}

	var out []string
	for _, key := range keys {
		if bytes.HasPrefix(key, []byte(prefix)) {
			out = append(out, string(key))
		}
	}
	return out, nil
}

// listByPrefix returns all values with keys matching the given prefix.
func (c *Client) listByPrefix(prefix string) ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listByPrefixLocked(prefix)
}

func (c *Client) listByPrefixLocked(prefix string) ([][]byte, error) {
	keys, err := c.keysByPrefix(prefix)
	if err != nil {
		return nil, err
	}

	var results [][]byte
	for _, key := range keys {
		val, err := c.kv.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		results = append(results, val)
	}
	return results, nil
}

// resolveKey finds the single key for typePrefix+idPrefix. Caller holds mu.
func (c *Client) resolveKey(typePrefix, idPrefix string) (string, error) {
	if idPrefix == "" {
		return "", fmt.Errorf("%w: empty id", storage.ErrNotFound)
	}
	keys, err := c.keysByPrefix(typePrefix + strings.ToLower(idPrefix))
	if err != nil {
		return "", err
	}

	if len(keys) == 0 {
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, idPrefix)
	}
	if len(keys) > 1 {
		return "", fmt.Errorf("%w %s: matches %d records", storage.ErrAmbiguous, idPrefix, len(keys))
	}
	return keys[0], nil
}

// getByIDPrefix retrieves a single value by ID prefix match.
func (c *Client) getByIDPrefix(typePrefix, idPrefix string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key, err := c.resolveKey(typePrefix, idPrefix)
	if err != nil {
		return nil, err
	}

	data, err := c.kv.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, idPrefix)
	}
	return data, err
}

// unmarshalJSON is a helper to unmarshal JSON data.
func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// extractID extracts the ID portion from a prefixed key.
func extractID(key, prefix string) string {
	return strings.TrimPrefix(key, prefix)
}
