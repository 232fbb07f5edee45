package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
)

// Memory keeps containers and objects in process. It backs local runs
// without cloud credentials and tests that need a real Backend.
type Memory struct {
	mu         sync.Mutex
	containers map[string]*memoryContainer
}

type memoryContainer struct {
	name    string
	objects map[string]memoryObject
}

type memoryObject struct {
	contentType string
	data        []byte
}

func NewMemory() *Memory {
	return &Memory{containers: make(map[string]*memoryContainer)}
}

func (m *Memory) ResolveContainer(ctx context.Context, name string) (Container, error) {
	if err := ctx.Err(); err != nil {
		return Container{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.containers[name]; !ok {
		m.containers[name] = &memoryContainer{name: name, objects: make(map[string]memoryObject)}
	}
	return Container{ID: name, Name: name}, nil
}

func (m *Memory) WriteObject(ctx context.Context, c Container, obj Object) (ObjectRef, error) {
	if err := ctx.Err(); err != nil {
		return ObjectRef{}, err
	}

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return ObjectRef{}, fmt.Errorf("read %q: %w", obj.Name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	mc, ok := m.containers[c.ID]
	if !ok {
		return ObjectRef{}, fmt.Errorf("memory container %q does not exist", c.ID)
	}
	mc.objects[obj.Name] = memoryObject{contentType: obj.ContentType, data: data}

	return ObjectRef{ID: c.ID + "/" + obj.Name, Name: obj.Name, Container: c}, nil
}

func (m *Memory) IssueShareableLink(ctx context.Context, ref ObjectRef) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("memory://%s/%s", url.PathEscape(ref.Container.ID), url.PathEscape(ref.Name)), nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Containers returns the number of containers created so far.
func (m *Memory) Containers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.containers)
}

// Object returns a copy of a stored object's bytes and content type.
func (m *Memory) Object(container, name string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mc, ok := m.containers[container]
	if !ok {
		return nil, "", false
	}
	obj, ok := mc.objects[name]
	if !ok {
		return nil, "", false
	}
	return bytes.Clone(obj.data), obj.contentType, true
}
