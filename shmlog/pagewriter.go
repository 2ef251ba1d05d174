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
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// PageWriter is the producer side of the ring: page acquisition, record
// packing, and the page-closing protocol. Safe for concurrent use by
// multiple goroutines within one process; cross-process writers are not
// supported (spec.md §4.3).
type PageWriter struct {
	mu           sync.Mutex
	buffer       []byte
	bufferOffset uint32
	pageOffset   uint32
	pageID       uint32
	logger       log.Logger
	metrics      *Metrics
}

// NewPageWriter constructs a PageWriter. logger and metrics may be nil; a
// nil logger behaves like log.NewNopLogger, and a nil metrics is replaced
// with NewMetrics(nil).
func NewPageWriter(logger log.Logger, metrics *Metrics) *PageWriter {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &PageWriter{logger: logger, metrics: metrics}
}

// WriteLock acquires the writer mutex, ensures a live page with enough free
// space for the record, writes the UnitHeader, and returns a slice
// positioned at the payload area. The caller must write exactly
// AlignedSize(payloadSize) bytes into the returned slice and then call
// WriteUnlock with that same slice — see WriteUnlock.
func (w *PageWriter) WriteLock(fm *FileMap, funcID FuncID, payloadSize uint32) ([]byte, error) {
	w.mu.Lock()
	packed := AlignedSize(payloadSize)
	if err := w.validPage(fm, UnitHeaderSize+packed); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	PutUnitHeader(w.buffer[w.bufferOffset:], UnitHeader{
		PackingCount: uint16(packed / LogUnitPacking),
		FuncID:       funcID,
	})
	start := w.bufferOffset + UnitHeaderSize
	return w.buffer[start : start+packed], nil
}

// WriteUnlock advances the page past the record the caller just wrote into
// the slice WriteLock returned, republishes the PageHeader watermark,
// flushes the written prefix, and releases the writer mutex. payload must
// be the exact slice returned by the matching WriteLock call.
func (w *PageWriter) WriteUnlock(payload []byte) error {
	defer w.mu.Unlock()
	newOffset := headerRelativeOffset(w.buffer, payload) + uint32(len(payload))
	w.bufferOffset = newOffset
	if err := w.rewriteHeader(ActivityInProgress, w.bufferOffset); err != nil {
		return err
	}
	w.metrics.RecordsWritten.Inc()
	w.metrics.BytesWritten.Add(float64(len(payload)))
	return nil
}

// headerRelativeOffset returns payload's start offset within buffer,
// assuming payload is a sub-slice of buffer (true for every slice WriteLock
// hands out).
func headerRelativeOffset(buffer, payload []byte) uint32 {
	return uint32(cap(buffer) - cap(payload))
}

// validPage ensures a live page has at least `space` free bytes, rotating
// the ring if it does not (or if no page is currently mapped).
func (w *PageWriter) validPage(fm *FileMap, space uint32) error {
	if w.buffer == nil || LogPageSize < int(w.bufferOffset)+int(space) {
		if w.buffer != nil {
			if err := w.rewriteHeader(ActivityClosed, w.bufferOffset); err != nil {
				return err
			}
			if err := UnmapView(w.buffer); err != nil {
				return err
			}
			w.buffer = nil
			w.bufferOffset = 0
			w.pageOffset = (w.pageOffset + 1) % LogPageCount
			w.pageID = 0
			w.metrics.PagesRotated.Inc()
		}

		mem, err := fm.MapView(int64(w.pageOffset)*LogPageSize, LogPageSize)
		if err != nil {
			return errors.Wrapf(err, "map page %d", w.pageOffset)
		}
		w.buffer = mem
		// Freshly rotated pages start at packingCount=0 (spec.md §9 redesign
		// flag: the original's rewriteHeader('+', sizeof(UnitHeader)) stamps
		// a bogus non-zero count here; we don't carry that bug forward).
		PutPageHeader(w.buffer, PageHeader{Code: PageCode, Activity: ActivityInProgress, PackingCount: 0, PageID: w.pageID})
		w.bufferOffset = PageHeaderSize
		level.Debug(w.logger).Log("msg", "rotated to new page", "pageOffset", w.pageOffset)
	}
	return nil
}

// rewriteHeader republishes the PageHeader with the given activity byte and
// occupied-bytes offset, then flushes the written prefix.
func (w *PageWriter) rewriteHeader(activity byte, offset uint32) error {
	PutPageHeader(w.buffer, PageHeader{
		Code:         PageCode,
		Activity:     activity,
		PackingCount: uint16((offset - PageHeaderSize) / LogUnitPacking),
		PageID:       w.pageID,
	})
	return FlushView(w.buffer[:offset])
}

// Close stamps the live page terminal ('/') and unmaps it, signalling a
// clean writer exit to any reader.
func (w *PageWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buffer == nil {
		return nil
	}
	if err := w.rewriteHeader(ActivityTerminal, w.bufferOffset); err != nil {
		return err
	}
	err := UnmapView(w.buffer)
	w.buffer = nil
	return err
}
