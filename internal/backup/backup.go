package backup

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sethvargo/go-retry"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds backup manager configuration. The manager stays disabled
// until bucket, credentials and a passphrase are all present.
type Config struct {
	Bucket     string
	Region     string
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Passphrase string
	DBPath     string
	Interval   time.Duration
}

// Manager periodically snapshots the sqlite database, encrypts the
// snapshot and uploads it to S3-compatible storage.
type Manager struct {
	cfg       Config
	db        *sql.DB
	client    s3Client
	logger    *slog.Logger
	retryBase time.Duration

	mu         sync.RWMutex
	lastBackup time.Time
	lastError  string

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a backup manager. It returns a disabled manager
// when the config is incomplete.
func NewManager(cfg Config, db *sql.DB, logger *slog.Logger) *Manager {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	m := &Manager{cfg: cfg, db: db, logger: logger, retryBase: time.Second}
	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" && cfg.Passphrase != "" {
		m.client = newS3Client(cfg)
	}
	return m
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether backups are configured.
func (m *Manager) Enabled() bool {
	return m.client != nil
}

// LastBackup returns the time of the most recent successful backup,
// zero if none have completed.
func (m *Manager) LastBackup() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastBackup
}

// Start begins the scheduled backup loop.
func (m *Manager) Start(ctx context.Context) {
	if !m.Enabled() {
		return
	}

	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.RunOnce(ctx); err != nil {
					m.logger.Error("scheduled backup failed", "error", err)
				}
			}
		}
	}()
}

// Stop gracefully stops the backup loop.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.done != nil {
		<-m.done
	}
}

// RunOnce snapshots, encrypts and uploads the database immediately.
func (m *Manager) RunOnce(ctx context.Context) error {
	if !m.Enabled() {
		return fmt.Errorf("backup not configured")
	}

	timestamp := time.Now().UTC().Format("2006-01-02T150405Z")
	key := fmt.Sprintf("gamepop/backup-%s.db.enc", timestamp)

	snapshot := filepath.Join(os.TempDir(), fmt.Sprintf("gamepop-backup-%s.db", timestamp))
	defer os.Remove(snapshot)

	// VACUUM INTO writes a consistent single-file copy regardless of
	// WAL state.
	if _, err := m.db.ExecContext(ctx, "VACUUM INTO ?", snapshot); err != nil {
		return m.fail(fmt.Errorf("snapshot database: %w", err))
	}

	plaintext, err := os.ReadFile(snapshot)
	if err != nil {
		return m.fail(fmt.Errorf("read snapshot: %w", err))
	}

	encrypted, err := Encrypt(plaintext, m.cfg.Passphrase)
	if err != nil {
		return m.fail(fmt.Errorf("encrypt snapshot: %w", err))
	}

	if err := m.upload(ctx, key, encrypted); err != nil {
		return m.fail(fmt.Errorf("upload backup: %w", err))
	}

	m.mu.Lock()
	m.lastBackup = time.Now().UTC()
	m.lastError = ""
	m.mu.Unlock()

	m.logger.Info("backup uploaded", "key", key, "size_bytes", len(encrypted))
	return nil
}

// upload retries transient S3 failures with exponential backoff.
func (m *Manager) upload(ctx context.Context, key string, data []byte) error {
	backoff := retry.WithMaxRetries(4, retry.NewExponential(m.retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(m.cfg.Bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(int64(len(data))),
		})
		if err != nil {
			m.logger.Warn("backup upload attempt failed", "key", key, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (m *Manager) fail(err error) error {
	m.mu.Lock()
	m.lastError = err.Error()
	m.mu.Unlock()
	return err
}
