// Package storage abstracts the remote providers that receive family
// uploads. Each backend knows how to find or create a per-family container,
// write an object into it, and hand out a link that can be shared with the
// family.
package storage

import (
	"context"
	"errors"
	"io"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// ErrNotFolder is returned when a family container path is occupied by
// something that is not a folder.
var ErrNotFolder = errors.New("storage: container path exists and is not a folder")

// Container is a provider-side folder (or key prefix) holding one family's files.
type Container struct {
	// ID is the provider reference: a Drive folder id, a Dropbox path or an
	// object key prefix.
	ID   string
	Name string
}

// Object is a single payload to be written into a Container.
type Object struct {
	Name        string
	ContentType string
	// Size is the payload length in bytes, or -1 when unknown.
	Size int64
	Body io.Reader
}

// ObjectRef identifies a written object.
type ObjectRef struct {
	ID        string
	Name      string
	Container Container
	// Link is set when the provider returns a shareable link together with
	// the write.
	Link string
}

// Backend is the capability set the upload flow needs from a provider.
//
//counterfeiter:generate . Backend
type Backend interface {
	// ResolveContainer returns the container named name under the configured
	// root, creating it when absent. Calling it twice with the same name
	// yields the same container.
	ResolveContainer(ctx context.Context, name string) (Container, error)
	// WriteObject writes (or overwrites) obj inside c.
	WriteObject(ctx context.Context, c Container, obj Object) (ObjectRef, error)
	// IssueShareableLink returns a URL granting access to ref.
	IssueShareableLink(ctx context.Context, ref ObjectRef) (string, error)
}

// HealthChecker is implemented by backends that can cheaply verify
// connectivity and credentials.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
