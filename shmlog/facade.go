/*
 *
 * Copyright 2025 gRPC authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package shmlog

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// Clock returns nanoseconds for event timestamps. The default measures
// elapsed time against processEpoch using time.Since, which stays on Go's
// monotonic clock reading end to end and never calls UnixNano — the
// original's std::chrono::high_resolution_clock has no notion of wall-clock
// adjustment, and neither should this. Tests substitute a deterministic
// Clock instead of depending on timing at all (spec.md §4.6 "Time"
// addition).
type Clock func() int64

// processEpoch is the zero-point every default-clock reading is measured
// from. time.Since(processEpoch) keeps the subtraction on the monotonic
// reading carried inside both time.Time values, so a wall-clock step (NTP
// sync, manual clock change) can't violate P6's non-decreasing timestamp
// ordering within a single process run.
var processEpoch = time.Now()

func defaultClock() int64 {
	return time.Since(processEpoch).Nanoseconds()
}

// Option configures a DetectorFacade when Init or ReadOnce constructs it.
type Option func(*facadeConfig)

type facadeConfig struct {
	filePath         string
	logger           log.Logger
	metrics          *Metrics
	clock            Clock
	semaphoreFactory SemaphoreFactory
	companion        CompanionLauncher
}

func defaultFacadeConfig() facadeConfig {
	return facadeConfig{
		filePath:         DefaultFileName,
		logger:           log.NewNopLogger(),
		metrics:          NewMetrics(nil),
		clock:            defaultClock,
		semaphoreFactory: DefaultSemaphoreFactory,
		companion:        NewCompanionLauncher(),
	}
}

// WithFilePath overrides the backing file path (default DefaultFileName).
func WithFilePath(path string) Option {
	return func(c *facadeConfig) { c.filePath = path }
}

// WithLogger overrides the facade's logger (default a no-op logger).
func WithLogger(logger log.Logger) Option {
	return func(c *facadeConfig) { c.logger = logger }
}

// WithMetrics overrides the facade's Metrics (default NewMetrics(nil)).
func WithMetrics(m *Metrics) Option {
	return func(c *facadeConfig) { c.metrics = m }
}

// WithClock overrides the facade's event clock.
func WithClock(clock Clock) Option {
	return func(c *facadeConfig) { c.clock = clock }
}

// WithSemaphoreFactory overrides the SemaphoreFactory Valid uses to block on
// a companion response (default DefaultSemaphoreFactory).
func WithSemaphoreFactory(f SemaphoreFactory) Option {
	return func(c *facadeConfig) { c.semaphoreFactory = f }
}

// WithCompanionLauncher overrides the CompanionLauncher stored in the
// facade's configuration (default NewCompanionLauncher()). No facade
// function launches or kills the viewer through it.
func WithCompanionLauncher(l CompanionLauncher) Option {
	return func(c *facadeConfig) { c.companion = l }
}

// DetectorFacade is the public event-emitting/draining surface: it owns
// either a writer-side FileMap+PageWriter pair or a reader-side
// FileMap+PageReader pair, never both in the same instance (spec.md §1: the
// writer and reader singletons are distinct processes' concerns, rendered
// here as distinct facade instances rather than one god object).
type DetectorFacade struct {
	cfg    facadeConfig
	fm     *FileMap
	writer *PageWriter
	reader *PageReader
}

var (
	globalMu     sync.Mutex
	globalWriter *DetectorFacade

	readerOnce  sync.Once
	readerErr   error
	globalReader *DetectorFacade
)

// Init constructs the process-wide writer singleton. Calling Init again
// while one is already live is a no-op; call Shutdown first to replace it.
func Init(opts ...Option) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalWriter != nil {
		return nil
	}
	d, err := newWriterFacade(opts...)
	if err != nil {
		return err
	}
	globalWriter = d
	return nil
}

// Shutdown stamps the writer's live page terminal and releases the backing
// file. It is safe to call when Init was never called.
func Shutdown() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalWriter == nil {
		return nil
	}
	err := globalWriter.close()
	globalWriter = nil
	return err
}

func newWriterFacade(opts ...Option) (*DetectorFacade, error) {
	cfg := defaultFacadeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	fm, err := NewWriterFileMap(cfg.filePath, LogFileSize)
	if err != nil {
		return nil, errors.Wrap(err, "init shmlog writer")
	}
	return &DetectorFacade{
		cfg:    cfg,
		fm:     fm,
		writer: NewPageWriter(cfg.logger, cfg.metrics),
	}, nil
}

func (d *DetectorFacade) close() error {
	var firstErr error
	if d.writer != nil {
		if err := d.writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.fm != nil {
		if err := d.fm.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// now returns the facade's clock reading, or the default clock if none was
// configured (zero-value DetectorFacade used directly in tests).
func (d *DetectorFacade) now() int64 {
	if d == nil || d.cfg.clock == nil {
		return defaultClock()
	}
	return d.cfg.clock()
}

// writeRecord is the common WriteLock/encode/WriteUnlock bracket every
// public event method funnels through. A facade with no live writer (Init
// never called, or the mapped file failed) silently no-ops, preserving "the
// writer never fails" from the caller's perspective (spec.md §7).
func (d *DetectorFacade) writeRecord(funcID FuncID, size uint32, encode func([]byte)) error {
	if d == nil || d.writer == nil || d.fm == nil {
		return nil
	}
	payload, err := d.writer.WriteLock(d.fm, funcID, size)
	if err != nil {
		level.Error(d.cfg.logger).Log("msg", "write failed", "funcID", funcID, "err", err)
		return err
	}
	encode(payload)
	return d.writer.WriteUnlock(payload)
}

func (d *DetectorFacade) writeS(funcID FuncID, s string) error {
	return d.writeRecord(funcID, SPayloadSize(s), func(buf []byte) { EncodeS(buf, s) })
}

func (d *DetectorFacade) writeSS(funcID FuncID, s1, s2 string) error {
	return d.writeRecord(funcID, SSPayloadSize(s1, s2), func(buf []byte) { EncodeSS(buf, s1, s2) })
}

func (d *DetectorFacade) writeST32(funcID FuncID, s string, v int32) error {
	return d.writeRecord(funcID, ST32PayloadSize(s), func(buf []byte) { EncodeST32(buf, s, v) })
}

func (d *DetectorFacade) writeST64(funcID FuncID, s string, v int64) error {
	return d.writeRecord(funcID, ST64PayloadSize(s), func(buf []byte) { EncodeST64(buf, s, v) })
}

// Stamp records a named point in time.
func Stamp(name string) {
	stampWith(currentWriter(), name)
}

func stampWith(d *DetectorFacade, name string) {
	if d == nil {
		return
	}
	if err := d.writeST64(StampST, name, d.now()); err != nil {
		level.Error(d.cfg.logger).Log("msg", "stamp failed", "name", name, "err", err)
	}
}

// Scope emits ScopeBeginST(name) and returns a guard whose End emits the
// matching ScopeEndST, typically via defer.
func Scope(name string) *ScopeGuard {
	d := currentWriter()
	if d == nil {
		return nil
	}
	return newScopeGuard(d, name)
}

// Trace emits a leveled, formatted message: it prints it to standard output
// with a "<info>", "<warn>" or "<error>" prefix and records it as TraceST.
func Trace(lvl Level, format string, args ...any) {
	d := currentWriter()
	if d == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("<%s> %s\n", lvl, msg)
	if err := d.writeST32(TraceST, msg, int32(lvl)); err != nil {
		level.Error(d.cfg.logger).Log("msg", "trace failed", "err", err)
	}
}

// SetValue records a named value, dispatching to SetValueSS for a string
// value or SetValueST for an int32 or int (truncated to int32), matching the
// original's overload pair. Any other value, including other integer types,
// is recorded as SetValueSS with its fmt.Sprint text.
func SetValue(name string, value any) {
	d := currentWriter()
	if d == nil {
		return
	}
	switch v := value.(type) {
	case string:
		if err := d.writeSS(SetValueSS, name, v); err != nil {
			level.Error(d.cfg.logger).Log("msg", "set value failed", "name", name, "err", err)
		}
	case int32:
		if err := d.writeST32(SetValueST, name, v); err != nil {
			level.Error(d.cfg.logger).Log("msg", "set value failed", "name", name, "err", err)
		}
	case int:
		if err := d.writeST32(SetValueST, name, int32(v)); err != nil {
			level.Error(d.cfg.logger).Log("msg", "set value failed", "name", name, "err", err)
		}
	default:
		if err := d.writeSS(SetValueSS, name, fmt.Sprint(v)); err != nil {
			level.Error(d.cfg.logger).Log("msg", "set value failed", "name", name, "err", err)
		}
	}
}

// AddValue records a delta against a named running counter.
func AddValue(name string, delta int32) {
	d := currentWriter()
	if d == nil {
		return
	}
	if err := d.writeST32(AddValueST, name, delta); err != nil {
		level.Error(d.cfg.logger).Log("msg", "add value failed", "name", name, "err", err)
	}
}

func currentWriter() *DetectorFacade {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalWriter
}

// ReadOnce drains at most one record from the process-wide reader singleton,
// opening it lazily (against DefaultFileName unless WithFilePath is given)
// on first use. LogNotFound is returned, not an error, when no writer has
// ever created the file — exactly the ReadResult spec.md §7 reserves for that
// case; each later call looks for the file again until it exists.
func ReadOnce(cb ReadCallback, opts ...Option) (ReadResult, error) {
	readerOnce.Do(func() {
		globalReader, readerErr = newReaderFacade(opts...)
	})
	if readerErr != nil {
		return LogNotFound, readerErr
	}
	if globalReader == nil || globalReader.fm == nil || !globalReader.fm.IsValid() {
		d, err := newReaderFacade(opts...)
		if err != nil {
			return LogNotFound, err
		}
		globalReader = d
		if !d.fm.IsValid() {
			return LogNotFound, nil
		}
	}
	return globalReader.reader.ReadOnce(globalReader.fm, cb)
}

func newReaderFacade(opts ...Option) (*DetectorFacade, error) {
	cfg := defaultFacadeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	fm, err := NewReaderFileMap(cfg.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "init shmlog reader")
	}
	d := &DetectorFacade{cfg: cfg, fm: fm}
	if !fm.IsValid() {
		return d, nil
	}
	reader, err := NewPageReader(fm, cfg.metrics)
	if err != nil {
		return nil, errors.Wrap(err, "load first page")
	}
	d.reader = reader
	return d, nil
}
