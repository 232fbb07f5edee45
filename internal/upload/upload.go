// Package upload runs the family upload flow: validate the family name,
// resolve the family's container once, then transfer each file in order and
// collect a shareable link for it.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"family-drop/internal/logging"
	"family-drop/internal/storage"
)

// File is one uploaded payload. Open is called once, right before the
// transfer, so that files after a failure are never opened.
type File struct {
	Name        string
	ContentType string
	// Size is the payload length in bytes, or -1 when unknown.
	Size int64
	Open func() (io.ReadCloser, error)
}

// Request is a single family upload.
type Request struct {
	FamilyName string
	Files      []File
}

// Result is the outcome for one transferred file.
type Result struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ValidationError reports a request that was rejected before any provider
// call was made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProviderError wraps a failure returned by the storage backend. Its
// message is the backend's message so that it can be shown to the caller.
type ProviderError struct {
	Op   string // resolve, write or link
	Name string // family or file name
	Err  error
}

func (e *ProviderError) Error() string {
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Stats summarizes a finished upload for metrics.
type Stats struct {
	Files    int
	Bytes    int64
	Duration time.Duration
}

// Service orchestrates uploads against one backend.
type Service struct {
	backend  storage.Backend
	provider string
}

func New(backend storage.Backend, provider string) *Service {
	return &Service{backend: backend, provider: provider}
}

// Provider returns the name of the configured storage provider.
func (s *Service) Provider() string {
	return s.provider
}

// Upload validates req, resolves the family container and transfers every
// file sequentially. The first failure aborts the remaining transfers and no
// partial results are returned.
func (s *Service) Upload(ctx context.Context, req Request) ([]Result, Stats, error) {
	start := time.Now()
	var stats Stats

	// Names that clean down to nothing are rejected rather than mapped to a
	// shared fallback folder.
	family := storage.CleanName(strings.TrimSpace(req.FamilyName))
	if family == "" {
		return nil, stats, &ValidationError{Field: "familyName", Message: "family name is required"}
	}

	fields := map[string]any{
		"rid":      logging.RequestIDFromContext(ctx),
		"provider": s.provider,
		"family":   family,
		"files":    len(req.Files),
	}

	container, err := s.backend.ResolveContainer(ctx, family)
	if err != nil {
		logging.Error("resolve_container_failed", fields, err)
		return nil, stats, &ProviderError{Op: "resolve", Name: family, Err: err}
	}

	results := make([]Result, 0, len(req.Files))
	for i, f := range req.Files {
		if err := ctx.Err(); err != nil {
			return nil, stats, &ProviderError{Op: "write", Name: f.Name, Err: err}
		}

		res, n, err := s.transfer(ctx, container, f)
		if err != nil {
			logging.Error("upload_file_failed", map[string]any{
				"rid":      fields["rid"],
				"provider": s.provider,
				"family":   family,
				"file":     f.Name,
				"index":    i,
			}, err)
			return nil, stats, err
		}

		results = append(results, res)
		stats.Files++
		stats.Bytes += n
	}

	stats.Duration = time.Since(start)
	fields["ms"] = stats.Duration.Milliseconds()
	fields["bytes"] = stats.Bytes
	logging.Info("upload_completed", fields)

	return results, stats, nil
}

// transfer writes one file and fetches its link. It returns the number of
// bytes read from the payload.
func (s *Service) transfer(ctx context.Context, c storage.Container, f File) (Result, int64, error) {
	name := storage.SanitizeName(f.Name)

	if f.Open == nil {
		return Result{}, 0, &ProviderError{Op: "write", Name: name, Err: errors.New("file has no content")}
	}
	body, err := f.Open()
	if err != nil {
		return Result{}, 0, &ProviderError{Op: "write", Name: name, Err: fmt.Errorf("open %q: %w", f.Name, err)}
	}
	defer func() { _ = body.Close() }()

	cr := &countingReader{r: body}

	ref, err := s.backend.WriteObject(ctx, c, storage.Object{
		Name:        name,
		ContentType: storage.ContentTypeFor(name, f.ContentType),
		Size:        f.Size,
		Body:        cr,
	})
	if err != nil {
		return Result{}, cr.n, &ProviderError{Op: "write", Name: name, Err: err}
	}

	link, err := s.backend.IssueShareableLink(ctx, ref)
	if err != nil {
		return Result{}, cr.n, &ProviderError{Op: "link", Name: name, Err: err}
	}

	out := ref.Name
	if out == "" {
		out = name
	}
	return Result{Name: out, URL: link}, cr.n, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
