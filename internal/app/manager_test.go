package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/andyballingall/swagger-mock-validator/internal/config"
	"github.com/andyballingall/swagger-mock-validator/internal/loader"
	"github.com/andyballingall/swagger-mock-validator/internal/mock"
	"github.com/andyballingall/swagger-mock-validator/internal/result"
	"github.com/andyballingall/swagger-mock-validator/internal/spec"
)

// waitForOutput polls the buffer until it contains want or timeout is reached.
// Returns true if the output was found, false if timeout occurred.
func (s *safeBuffer) waitForOutput(want string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(s.String(), want) {
			return true
		}
		time.Sleep(50 * time.Millisecond)
	}
	return false
}

type failingLoader struct {
	err error
}

func (f *failingLoader) Load(context.Context, string) (any, error) {
	return nil, f.err
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestManager(w io.Writer) *CLIManager {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mgr := NewCLIManager(logger, config.Default(), loader.New(loader.DefaultConfig))
	mgr.reporterWriter = w
	start := time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)
	mgr.now = func() time.Time { return start }
	return mgr
}

func TestCLIManager_ValidateMock(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	swaggerFile := writeDoc(t, dir, "swagger.json", compatibleSwagger)
	invalidSwaggerFile := writeDoc(t, dir, "invalid-swagger.json", invalidSwagger)
	compatibleFile := writeDoc(t, dir, "compatible.json", compatiblePact)
	incompatibleFile := writeDoc(t, dir, "incompatible.json", incompatiblePact)
	warningFile := writeDoc(t, dir, "warning.json", warningPact)
	malformedFile := writeDoc(t, dir, "malformed.json", `{"consumer": {"name": "web"}}`)

	t.Run("compatible", func(t *testing.T) {
		t.Parallel()
		var buf safeBuffer
		err := newTestManager(&buf).ValidateMock(context.Background(), swaggerFile, compatibleFile,
			ValidateOptions{Output: config.OutputText})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "SWAGGER MOCK VALIDATOR REPORT")
		assert.Contains(t, buf.String(), "Summary: COMPATIBLE")
	})

	t.Run("not compatible", func(t *testing.T) {
		t.Parallel()
		var buf safeBuffer
		err := newTestManager(&buf).ValidateMock(context.Background(), swaggerFile, incompatibleFile,
			ValidateOptions{Output: config.OutputJSON})
		require.Error(t, err)

		var ncErr *NotCompatibleError
		require.ErrorAs(t, err, &ncErr)
		require.Len(t, ncErr.Errors, 1)
		assert.Equal(t, result.CodePathIncompatible, ncErr.Errors[0].Code)
		assert.Equal(t, `"`+incompatibleFile+`" is not compatible with "`+swaggerFile+`"`, err.Error())

		output := buf.String()
		require.True(t, gjson.Valid(output))
		assert.Equal(t, "spv.request.path.incompatible", gjson.Get(output, "errors.0.code").String())
		assert.Equal(t, "ann", gjson.Get(output, "errors.0.mockDetails.value").String())
		assert.Equal(t, "get a user by name", gjson.Get(output, "errors.0.mockDetails.interactionDescription").String())
	})

	t.Run("warnings are reported", func(t *testing.T) {
		t.Parallel()
		var buf safeBuffer
		err := newTestManager(&buf).ValidateMock(context.Background(), swaggerFile, warningFile,
			ValidateOptions{Output: config.OutputJSON, SkipSpecValidation: true})
		require.NoError(t, err)

		output := buf.String()
		assert.Equal(t, int64(0), gjson.Get(output, "errors.#").Int())
		assert.Equal(t, int64(1), gjson.Get(output, "warnings.#").Int())
		assert.Equal(t, "spv.request.header.standard", gjson.Get(output, "warnings.0.code").String())
	})

	t.Run("fail on warning", func(t *testing.T) {
		t.Parallel()
		err := newTestManager(io.Discard).ValidateMock(context.Background(), swaggerFile, warningFile,
			ValidateOptions{FailOnWarning: true, SkipSpecValidation: true})
		var wErr *WarningsNotAllowedError
		require.ErrorAs(t, err, &wErr)
		assert.Equal(t, 1, wErr.Count)
	})

	t.Run("invalid spec", func(t *testing.T) {
		t.Parallel()
		var buf safeBuffer
		err := newTestManager(&buf).ValidateMock(context.Background(), invalidSwaggerFile, compatibleFile,
			ValidateOptions{Output: config.OutputJSON})

		var isErr *InvalidSpecError
		require.ErrorAs(t, err, &isErr)
		require.NotEmpty(t, isErr.Errors)
		assert.Equal(t, `"`+invalidSwaggerFile+`" is not a valid swagger file`, err.Error())

		output := buf.String()
		assert.Equal(t, "sv.error", gjson.Get(output, "errors.0.code").String())
		assert.Equal(t, "swagger-validation", gjson.Get(output, "errors.0.source").String())
		assert.Equal(t, "[pactRoot]", gjson.Get(output, "errors.0.mockDetails.location").String())
	})

	t.Run("verbose text", func(t *testing.T) {
		t.Parallel()
		var buf safeBuffer
		err := newTestManager(&buf).ValidateMock(context.Background(), swaggerFile, incompatibleFile,
			ValidateOptions{Output: config.OutputText, Verbose: true})
		require.Error(t, err)
		assert.Contains(t, buf.String(), `mock value:  "ann"`)
		assert.Contains(t, buf.String(), "Summary: NOT COMPATIBLE")
	})

	t.Run("malformed mock", func(t *testing.T) {
		t.Parallel()
		var buf safeBuffer
		err := newTestManager(&buf).ValidateMock(context.Background(), swaggerFile, malformedFile,
			ValidateOptions{})
		assert.ErrorAs(t, err, new(*mock.MalformedMockDocumentError))
		assert.Empty(t, buf.String())
	})

	t.Run("malformed spec", func(t *testing.T) {
		t.Parallel()
		err := newTestManager(io.Discard).ValidateMock(context.Background(), compatibleFile, compatibleFile,
			ValidateOptions{SkipSpecValidation: true})
		assert.ErrorAs(t, err, new(*spec.MalformedSpecDocumentError))
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		var buf safeBuffer
		err := newTestManager(&buf).ValidateMock(context.Background(), swaggerFile,
			filepath.Join(dir, "missing.json"), ValidateOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing.json")
		assert.Empty(t, buf.String())
	})

	t.Run("loader error", func(t *testing.T) {
		t.Parallel()
		mgr := newTestManager(io.Discard)
		mgr.loader = &failingLoader{err: errors.New("boom")}
		err := mgr.ValidateMock(context.Background(), "a", "b", ValidateOptions{})
		require.EqualError(t, err, "boom")
	})
}

func TestCLIManager_WatchValidation(t *testing.T) {
	t.Parallel()

	t.Run("nothing to watch", func(t *testing.T) {
		t.Parallel()
		err := newTestManager(io.Discard).WatchValidation(context.Background(),
			"https://example.com/swagger.json", "https://example.com/pact.json", ValidateOptions{}, nil)
		assert.ErrorAs(t, err, new(*NothingToWatchError))
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		err := newTestManager(io.Discard).WatchValidation(context.Background(),
			filepath.Join(dir, "swagger.json"), filepath.Join(dir, "pact.json"), ValidateOptions{}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot watch")
	})

	t.Run("revalidates on change and stops on cancel", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		swaggerFile := writeDoc(t, dir, "swagger.json", compatibleSwagger)
		pactFile := writeDoc(t, dir, "pact.json", compatiblePact)

		var buf safeBuffer
		mgr := newTestManager(&buf)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		readyChan := make(chan struct{}, 1)
		done := make(chan error, 1)
		go func() {
			done <- mgr.WatchValidation(ctx, swaggerFile, pactFile,
				ValidateOptions{Output: config.OutputText, SkipSpecValidation: true}, readyChan)
		}()

		<-readyChan
		assert.Contains(t, buf.String(), "Summary: COMPATIBLE")

		require.NoError(t, os.WriteFile(pactFile, []byte(incompatiblePact), 0o600))
		require.True(t, buf.waitForOutput("NOT COMPATIBLE", 5*time.Second), "expected a second report")

		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("WatchValidation timed out after cancel")
		}
	})
}

func TestLazyManager_PanicWhenNotInitialised(t *testing.T) {
	t.Parallel()
	lazy := &LazyManager{}

	// Should panic when accessing any method before SetInner is called
	assert.Panics(t, func() {
		lazy.Config()
	})
}

func TestLazyManager_Delegation(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	mockMgr := &MockManager{cfg: cfg}
	lazy := &LazyManager{}
	assert.False(t, lazy.HasInner())
	lazy.SetInner(mockMgr)

	assert.True(t, lazy.HasInner())
	assert.Same(t, cfg, lazy.Config())

	ctx := context.Background()
	opts := ValidateOptions{Output: config.OutputJSON}
	mockMgr.On("ValidateMock", ctx, "swagger.json", "pact.json", opts).Return(nil)
	require.NoError(t, lazy.ValidateMock(ctx, "swagger.json", "pact.json", opts))

	mockMgr.On("WatchValidation", ctx, "swagger.json", "pact.json", opts, (chan<- struct{})(nil)).Return(nil)
	require.NoError(t, lazy.WatchValidation(ctx, "swagger.json", "pact.json", opts, nil))

	mockMgr.AssertExpectations(t)
}
