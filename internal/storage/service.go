package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"backend-honeymoonhq/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Bucket is the only bucket the service manages.
const Bucket = "receipts"

const defaultURLTTL = 7 * 24 * time.Hour

var (
	ErrInvalidPath  = errors.New("storage: invalid object path")
	ErrInvalidToken = errors.New("storage: invalid or expired token")
	ErrNotFound     = errors.New("storage: object not found")
)

var (
	nowFn   = time.Now
	newIDFn = uuid.NewString
)

type Options struct {
	// Dir is the root directory; objects live under Dir/receipts.
	Dir     string
	Secret  string
	BaseURL string
	URLTTL  time.Duration
}

// Service stores receipt blobs on local disk and records their metadata in
// Postgres when a database is available.
type Service struct {
	db      db.Querier
	root    string
	secret  []byte
	baseURL string
	ttl     time.Duration
}

func NewService(q db.Querier, opts Options) *Service {
	ttl := opts.URLTTL
	if ttl <= 0 {
		ttl = defaultURLTTL
	}
	return &Service{
		db:      q,
		root:    filepath.Join(opts.Dir, Bucket),
		secret:  []byte(opts.Secret),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		ttl:     ttl,
	}
}

// Upload writes r to the object path and returns the stored path.
func (s *Service) Upload(ctx context.Context, path string, r io.Reader, contentType string) (string, error) {
	full, clean, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(full)
	if err != nil {
		return "", err
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return "", err
	}

	if _, err := s.SaveObject(ctx, clean, contentType, size); err != nil {
		log.Printf("storage: metadata insert failed for %s: %v", clean, err)
	}
	return clean, nil
}

// SaveObject records object metadata. Without a database it is a no-op.
func (s *Service) SaveObject(ctx context.Context, path, contentType string, size int64) (string, error) {
	if s.db == nil {
		return "", nil
	}
	id := newIDFn()
	_, err := s.db.Exec(ctx, `
		INSERT INTO storage_objects (id, bucket, path, content_type, size)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (bucket, path) DO UPDATE
		SET content_type = EXCLUDED.content_type, size = EXCLUDED.size
	`, id, Bucket, path, contentType, size)
	if err != nil {
		return "", err
	}
	return id, nil
}

type objectClaims struct {
	jwt.RegisteredClaims
}

// PublicURL returns a signed download URL for the object.
func (s *Service) PublicURL(path string) (string, error) {
	_, clean, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	now := nowFn()
	claims := objectClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clean,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/storage/%s/%s?token=%s", s.baseURL, Bucket, escapePath(clean), url.QueryEscape(token)), nil
}

// Open verifies the download token for path and opens the object.
func (s *Service) Open(path, token string) (*os.File, error) {
	full, clean, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	var claims objectClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(nowFn))
	if err != nil || !parsed.Valid || claims.Subject != clean {
		return nil, ErrInvalidToken
	}

	f, err := os.Open(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

// resolve maps an object path to its file under the bucket root.
func (s *Service) resolve(path string) (string, string, error) {
	if path == "" || strings.HasPrefix(path, "/") || strings.Contains(path, "\\") {
		return "", "", ErrInvalidPath
	}
	clean := filepath.ToSlash(filepath.Clean(path))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", "", ErrInvalidPath
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), clean, nil
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
