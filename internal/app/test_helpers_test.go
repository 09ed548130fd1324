package app

import (
	"bytes"
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/andyballingall/swagger-mock-validator/internal/config"
)

type MockManager struct {
	mock.Mock
	cfg *config.Config
}

func (m *MockManager) Config() *config.Config {
	if m.cfg == nil {
		return config.Default()
	}
	return m.cfg
}

func (m *MockManager) ValidateMock(ctx context.Context, specPathOrURL, mockPathOrURL string,
	opts ValidateOptions,
) error {
	args := m.Called(ctx, specPathOrURL, mockPathOrURL, opts)
	return args.Error(0)
}

func (m *MockManager) WatchValidation(ctx context.Context, specPathOrURL, mockPathOrURL string,
	opts ValidateOptions, readyChan chan<- struct{},
) error {
	args := m.Called(ctx, specPathOrURL, mockPathOrURL, opts, readyChan)
	return args.Error(0)
}

// safeBuffer is a thread-safe wrapper around bytes.Buffer for use in concurrent tests.
type safeBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *safeBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *safeBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

const compatibleSwagger = `{
  "swagger": "2.0",
  "info": {"title": "users", "version": "1.0.0"},
  "paths": {
    "/users/{id}": {
      "get": {
        "summary": "Get a user",
        "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
        "responses": {
          "200": {
            "description": "the user",
            "schema": {"$ref": "#/definitions/User"}
          }
        }
      }
    }
  },
  "definitions": {
    "User": {
      "type": "object",
      "required": ["id"],
      "properties": {"id": {"type": "integer"}, "name": {"type": "string"}}
    }
  }
}`

const compatiblePact = `{
  "consumer": {"name": "web"},
  "provider": {"name": "users"},
  "interactions": [{
    "description": "get a user",
    "request": {"method": "GET", "path": "/users/1"},
    "response": {"status": 200, "body": {"id": 1, "name": "ann"}}
  }]
}`

const incompatiblePact = `{
  "consumer": {"name": "web"},
  "provider": {"name": "users"},
  "interactions": [{
    "description": "get a user by name",
    "request": {"method": "GET", "path": "/users/ann"},
    "response": {"status": 200, "body": {"id": 1}}
  }]
}`

const warningPact = `{
  "consumer": {"name": "web"},
  "provider": {"name": "users"},
  "interactions": [{
    "description": "get a user",
    "request": {"method": "GET", "path": "/users/1", "headers": {"Accept-Language": "en"}},
    "response": {"status": 200, "body": {"id": 1}}
  }]
}`

const invalidSwagger = `{
  "swagger": "2.0",
  "info": {"title": "users", "version": "1.0.0"},
  "paths": {
    "users": {
      "get": {"summary": "list", "responses": {"200": {"description": "ok"}}}
    }
  }
}`
