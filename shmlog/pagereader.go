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

// ReadCallback receives one decoded record: its event kind, a pointer to
// the raw payload (valid only for the duration of the call), and the
// payload's length in bytes.
type ReadCallback func(funcID FuncID, payload []byte)

// PageReader is the consumer side of the ring: page loading, header
// re-sampling on busy pages, and record iteration. Not safe for concurrent
// use — the reader is single-threaded (spec.md §5).
type PageReader struct {
	buffer       []byte
	bufferOffset uint32
	pageOffset   uint32
	pageID       uint32
	pageBusy     bool
	pageSize     uint32
	metrics      *Metrics
}

// NewPageReader constructs a PageReader and loads the first page.
func NewPageReader(fm *FileMap, metrics *Metrics) (*PageReader, error) {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	r := &PageReader{metrics: metrics}
	if _, err := r.loadPage(fm); err != nil {
		return nil, err
	}
	return r, nil
}

// ReadOnce advances by at most one record, invoking cb for the record it
// finds, if any.
func (r *PageReader) ReadOnce(fm *FileMap, cb ReadCallback) (ReadResult, error) {
	result, err := r.readOnce(fm, cb)
	r.metrics.ReadResults.WithLabelValues(result.String()).Inc()
	return result, err
}

func (r *PageReader) readOnce(fm *FileMap, cb ReadCallback) (ReadResult, error) {
	if r.bufferOffset == r.pageSize {
		if r.pageBusy {
			hdr := GetPageHeader(r.buffer)
			r.pageBusy = hdr.Activity == ActivityInProgress
			r.pageSize = PageHeaderSize + uint32(hdr.PackingCount)*LogUnitPacking
			if hdr.Activity == ActivityTerminal {
				return ExitProgram, nil
			}
			if r.bufferOffset == r.pageSize {
				return Unreaded, nil
			}
		} else {
			oldPageOffset := r.pageOffset
			r.pageOffset = (r.pageOffset + 1) % LogPageCount
			result, err := r.loadPage(fm)
			if err != nil || result != Readed {
				r.pageOffset = oldPageOffset
				return result, err
			}
		}
	}

	unit := GetUnitHeader(r.buffer[r.bufferOffset:])
	payloadStart := r.bufferOffset + UnitHeaderSize
	payloadLen := uint32(unit.PackingCount) * LogUnitPacking
	cb(unit.FuncID, r.buffer[payloadStart:payloadStart+payloadLen])
	r.bufferOffset = payloadStart + payloadLen
	r.metrics.RecordsRead.Inc()
	return Readed, nil
}

// loadPage maps the page at r.pageOffset, unmapping any previously mapped
// page first (spec.md §9: the original leaks the prior mapping here).
func (r *PageReader) loadPage(fm *FileMap) (ReadResult, error) {
	if r.buffer != nil {
		if err := UnmapView(r.buffer); err != nil {
			return Unreaded, err
		}
		r.buffer = nil
	}

	mem, err := fm.MapView(int64(r.pageOffset)*LogPageSize, LogPageSize)
	if err != nil {
		return Unreaded, err
	}

	hdr := GetPageHeader(mem)
	if hdr.Code != PageCode {
		if err := UnmapView(mem); err != nil {
			return Unreaded, err
		}
		return Unreaded, nil // page never written in this ring cycle
	}

	r.buffer = mem
	r.bufferOffset = PageHeaderSize
	r.pageID = hdr.PageID
	r.pageBusy = hdr.Activity == ActivityInProgress
	r.pageSize = PageHeaderSize + uint32(hdr.PackingCount)*LogUnitPacking
	if hdr.Activity == ActivityTerminal {
		return ExitProgram, nil
	}
	return Readed, nil
}

// Close unmaps the currently loaded page, if any.
func (r *PageReader) Close() error {
	if r.buffer == nil {
		return nil
	}
	err := UnmapView(r.buffer)
	r.buffer = nil
	return err
}

