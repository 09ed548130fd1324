package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andyballingall/swagger-mock-validator/internal/compat"
	"github.com/andyballingall/swagger-mock-validator/internal/config"
	"github.com/andyballingall/swagger-mock-validator/internal/loader"
	"github.com/andyballingall/swagger-mock-validator/internal/mock"
	"github.com/andyballingall/swagger-mock-validator/internal/report"
	"github.com/andyballingall/swagger-mock-validator/internal/spec"
	"github.com/andyballingall/swagger-mock-validator/internal/swagger"
	"github.com/andyballingall/swagger-mock-validator/internal/watch"
)

// ValidateOptions controls a single validation run.
type ValidateOptions struct {
	Output             config.Output
	Verbose            bool
	UseColour          bool
	FailOnWarning      bool
	SkipSpecValidation bool
	Parallelism        int
}

// Manager defines the operations behind the CLI commands.
type Manager interface {
	ValidateMock(ctx context.Context, specPathOrURL, mockPathOrURL string, opts ValidateOptions) error
	WatchValidation(ctx context.Context, specPathOrURL, mockPathOrURL string, opts ValidateOptions,
		readyChan chan<- struct{}) error
	Config() *config.Config
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// PersistentPreRunE uses it to skip initialization when already configured.
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) ValidateMock(ctx context.Context, specPathOrURL, mockPathOrURL string,
	opts ValidateOptions,
) error {
	return l.check().ValidateMock(ctx, specPathOrURL, mockPathOrURL, opts)
}

func (l *LazyManager) WatchValidation(ctx context.Context, specPathOrURL, mockPathOrURL string,
	opts ValidateOptions, readyChan chan<- struct{},
) error {
	return l.check().WatchValidation(ctx, specPathOrURL, mockPathOrURL, opts, readyChan)
}

func (l *LazyManager) Config() *config.Config {
	return l.check().Config()
}

// DocumentLoader reads and decodes a spec or mock document.
type DocumentLoader interface {
	Load(ctx context.Context, pathOrURL string) (any, error)
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger         *slog.Logger
	cfg            *config.Config
	loader         DocumentLoader
	reporterWriter io.Writer
	now            func() time.Time
}

func NewCLIManager(l *slog.Logger, cfg *config.Config, ld DocumentLoader) *CLIManager {
	return &CLIManager{
		logger:         l,
		cfg:            cfg,
		loader:         ld,
		reporterWriter: os.Stdout,
		now:            time.Now,
	}
}

func (m *CLIManager) Config() *config.Config {
	return m.cfg
}

// ValidateMock validates the mock against the spec and writes the report.
// A report is written whenever validation ran, including when the spec is
// invalid or the documents are not compatible.
func (m *CLIManager) ValidateMock(ctx context.Context, specPathOrURL, mockPathOrURL string,
	opts ValidateOptions,
) error {
	m.logger.Debug("validating mock", "spec", specPathOrURL, "mock", mockPathOrURL, "output", opts.Output,
		"verbose", opts.Verbose, "parallelism", opts.Parallelism, "skipSpecValidation", opts.SkipSpecValidation)

	rep, err := m.validate(ctx, specPathOrURL, mockPathOrURL, opts)
	if rep != nil {
		if wErr := m.reporter(opts).Write(m.reporterWriter, rep); wErr != nil {
			return wErr
		}
	}
	if err != nil {
		return err
	}

	if opts.FailOnWarning && len(rep.Warnings) > 0 {
		return &WarningsNotAllowedError{MockFile: mockPathOrURL, Count: len(rep.Warnings)}
	}
	return nil
}

func (m *CLIManager) validate(ctx context.Context, specPathOrURL, mockPathOrURL string,
	opts ValidateOptions,
) (*report.Report, error) {
	start := m.now()

	var specDoc, mockDoc any
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := m.loader.Load(gctx, specPathOrURL)
		specDoc = doc
		return err
	})
	g.Go(func() error {
		doc, err := m.loader.Load(gctx, mockPathOrURL)
		mockDoc = doc
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	m.logger.Debug("documents loaded", "spec", specPathOrURL, "mock", mockPathOrURL)

	rep := &report.Report{
		SpecFile:  specPathOrURL,
		MockFile:  mockPathOrURL,
		StartTime: start,
	}

	if !opts.SkipSpecValidation {
		errs, warnings, err := swagger.Validate(specDoc, specPathOrURL, mockPathOrURL)
		if err != nil {
			return nil, err
		}
		rep.Warnings = warnings
		if len(errs) > 0 {
			rep.Errors = errs
			rep.EndTime = m.now()
			m.logger.Debug("spec failed structural validation", "errors", len(errs))
			return rep, &InvalidSpecError{SpecFile: specPathOrURL, Errors: rep.Errors, Warnings: rep.Warnings}
		}
	}

	s, err := spec.Parse(specDoc, specPathOrURL)
	if err != nil {
		return nil, err
	}
	mk, err := mock.Parse(mockDoc, mockPathOrURL)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("validating interactions", "count", len(mk.Interactions))
	outcome, err := compat.Validate(ctx, s, mk,
		compat.WithParallelism(opts.Parallelism),
		compat.WithAdditionalStandardHeaders(m.cfg.AdditionalStandardHeaders...),
	)
	if err != nil {
		return nil, err
	}

	rep.Errors = outcome.Errors
	rep.Warnings = append(rep.Warnings, outcome.Warnings...)
	rep.EndTime = m.now()
	m.logger.Debug("validation complete", "errors", len(rep.Errors), "warnings", len(rep.Warnings))

	if !rep.Compatible() {
		return rep, &NotCompatibleError{
			SpecFile: specPathOrURL,
			MockFile: mockPathOrURL,
			Errors:   rep.Errors,
			Warnings: rep.Warnings,
		}
	}
	return rep, nil
}

func (m *CLIManager) reporter(opts ValidateOptions) report.Reporter {
	if opts.Output == config.OutputJSON {
		return &report.JSONReporter{}
	}
	return &report.TextReporter{Verbose: opts.Verbose, UseColour: opts.UseColour}
}

// WatchValidation validates once, then again whenever a local spec or mock
// file changes, until ctx is cancelled.
// If you want to know when the watcher is ready to start listening to changes,
// pass a non-nil readyChan to be notified.
func (m *CLIManager) WatchValidation(ctx context.Context, specPathOrURL, mockPathOrURL string,
	opts ValidateOptions, readyChan chan<- struct{},
) error {
	var paths []string
	for _, p := range []string{specPathOrURL, mockPathOrURL} {
		if !loader.IsURL(p) {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return &NothingToWatchError{}
	}

	watcher, err := watch.New(paths, m.logger)
	if err != nil {
		return err
	}

	run := func() {
		if vErr := m.ValidateMock(ctx, specPathOrURL, mockPathOrURL, opts); vErr != nil {
			m.logger.Error("Validation failed", "error", vErr)
		}
	}
	run()

	// Forward watcher Ready signal if caller wants notification
	if readyChan != nil {
		go func() {
			<-watcher.Ready
			readyChan <- struct{}{}
		}()
	}

	err = watcher.Watch(ctx, func(e watch.Event) {
		m.logger.Info("File changed:", "path", e.Path)
		run()
	})
	if errors.Is(err, context.Canceled) {
		m.logger.Info("Interrupted by user")
		return nil
	}
	return err
}
