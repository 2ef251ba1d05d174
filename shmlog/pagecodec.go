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

import "encoding/binary"

// Memory layout constants. A page is the unit of writer rotation and reader
// mapping; the file is a ring of LogPageCount pages.
const (
	LogFileSize    = 5 * 256 * 4096 // 5 MiB
	LogPageSize    = 64 * 1024      // 64 KiB
	LogPageCount   = LogFileSize / LogPageSize
	LogUnitPacking = 4 // alignment unit, in bytes

	// DefaultFileName is the backing file name used by DetectorFacade.
	DefaultFileName = "nabang.blog"
)

// Activity sentinels for PageHeader.Activity.
const (
	ActivityInProgress byte = '+' // writer still appending to this page
	ActivityClosed      byte = '-' // writer advanced past this page
	ActivityTerminal    byte = '/' // writer process exited cleanly on this page
)

// PageCode is the sentinel that distinguishes an initialized page header from
// zero-filled or stale bytes left over from a previous ring cycle.
const PageCode byte = '#'

// PageHeaderSize is the on-disk size of PageHeader, in bytes.
const PageHeaderSize = 8

// UnitHeaderSize is the on-disk size of UnitHeader, in bytes.
const UnitHeaderSize = 4

// PageHeader is the 8-byte header at offset 0 of every page.
//
//	code(1) activity(1) packingCount(2, LE) pageID(4, LE)
type PageHeader struct {
	Code         byte
	Activity     byte
	PackingCount uint16 // size of occupied records, in 4-byte units, header excluded
	PageID       uint32 // reserved; always 0, see DESIGN.md Open Question decisions
}

// UnitHeader precedes every record within a page.
//
//	packingCount(2, LE) funcID(2, LE)
type UnitHeader struct {
	PackingCount uint16 // payload size, in 4-byte units
	FuncID       FuncID
}

// AlignedSize rounds n up to the nearest multiple of LogUnitPacking.
func AlignedSize(n uint32) uint32 {
	return (n + LogUnitPacking - 1) / LogUnitPacking * LogUnitPacking
}

// PutPageHeader encodes h into buf[:PageHeaderSize]. buf must have length
// at least PageHeaderSize.
func PutPageHeader(buf []byte, h PageHeader) {
	buf[0] = h.Code
	buf[1] = h.Activity
	binary.LittleEndian.PutUint16(buf[2:4], h.PackingCount)
	binary.LittleEndian.PutUint32(buf[4:8], h.PageID)
}

// GetPageHeader decodes a PageHeader from buf[:PageHeaderSize].
func GetPageHeader(buf []byte) PageHeader {
	return PageHeader{
		Code:         buf[0],
		Activity:     buf[1],
		PackingCount: binary.LittleEndian.Uint16(buf[2:4]),
		PageID:       binary.LittleEndian.Uint32(buf[4:8]),
	}
}

// PutUnitHeader encodes h into buf[:UnitHeaderSize].
func PutUnitHeader(buf []byte, h UnitHeader) {
	binary.LittleEndian.PutUint16(buf[0:2], h.PackingCount)
	binary.LittleEndian.PutUint16(buf[2:4], uint16(h.FuncID))
}

// GetUnitHeader decodes a UnitHeader from buf[:UnitHeaderSize].
func GetUnitHeader(buf []byte) UnitHeader {
	return UnitHeader{
		PackingCount: binary.LittleEndian.Uint16(buf[0:2]),
		FuncID:       FuncID(binary.LittleEndian.Uint16(buf[2:4])),
	}
}
