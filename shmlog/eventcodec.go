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

// FuncID enumerates the fixed set of event kinds a record can carry. Values
// are stable across writer and reader builds; a mismatch is a silent
// data-corruption class, not a recoverable error.
type FuncID uint16

const (
	ScopeBeginST FuncID = 1
	ScopeEndST   FuncID = 2
	StampST      FuncID = 3
	TraceST      FuncID = 4
	ValidST      FuncID = 5
	SetValueSS   FuncID = 6
	SetValueST   FuncID = 7
	AddValueST   FuncID = 8
)

func (f FuncID) String() string {
	switch f {
	case ScopeBeginST:
		return "ScopeBeginST"
	case ScopeEndST:
		return "ScopeEndST"
	case StampST:
		return "StampST"
	case TraceST:
		return "TraceST"
	case ValidST:
		return "ValidST"
	case SetValueSS:
		return "SetValueSS"
	case SetValueST:
		return "SetValueST"
	case AddValueST:
		return "AddValueST"
	default:
		return "FuncID(unknown)"
	}
}

// Level is the severity passed to Trace, carried as the T half of TraceST.
type Level int32

const (
	InfoLevel  Level = 0
	WarnLevel  Level = 1
	ErrorLevel Level = 2
)

func (l Level) String() string {
	switch l {
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "unknown"
	}
}

// ReadResult is the outcome of a single PageReader.ReadOnce / DetectorFacade
// ReadOnce call.
type ReadResult int

const (
	// Readed means one record was delivered to the callback.
	Readed ReadResult = iota
	// Unreaded means no new data is available right now; the caller should
	// poll again after a backoff.
	Unreaded
	// ExitProgram means the writer signalled a clean exit; the reader may
	// terminate.
	ExitProgram
	// LogNotFound means no writer has ever created the backing file.
	LogNotFound
)

func (r ReadResult) String() string {
	switch r {
	case Readed:
		return "Readed"
	case Unreaded:
		return "Unreaded"
	case ExitProgram:
		return "ExitProgram"
	case LogNotFound:
		return "LogNotFound"
	default:
		return "ReadResult(unknown)"
	}
}

// sBlockSize returns the aligned size of an S-block encoding a string of
// length n: a u16 length prefix, n bytes, and a mandatory trailing NUL.
func sBlockSize(n int) uint32 {
	return AlignedSize(uint32(2 + n + 1))
}

// SPayloadSize returns the aligned payload size of an S-encoded string.
func SPayloadSize(s string) uint32 {
	return sBlockSize(len(s))
}

// SSPayloadSize returns the aligned payload size of an SS-encoded pair.
func SSPayloadSize(s1, s2 string) uint32 {
	return sBlockSize(len(s1)) + sBlockSize(len(s2))
}

// ST32PayloadSize returns the aligned payload size of an ST<int32>-encoded pair.
func ST32PayloadSize(s string) uint32 {
	return sBlockSize(len(s)) + AlignedSize(4)
}

// ST64PayloadSize returns the aligned payload size of an ST<int64>-encoded pair.
func ST64PayloadSize(s string) uint32 {
	return sBlockSize(len(s)) + AlignedSize(8)
}

// putSBlock writes one S-block (u16 length + bytes + NUL, padded) into buf
// and returns the number of bytes consumed (the aligned block size).
func putSBlock(buf []byte, s string) uint32 {
	n := len(s)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(n))
	copy(buf[2:2+n], s)
	buf[2+n] = 0 // NUL terminator; the padding byte beyond it is indeterminate
	return sBlockSize(n)
}

// EncodeS encodes a single S-block event payload into buf, which must be at
// least SPayloadSize(s) bytes long.
func EncodeS(buf []byte, s string) {
	putSBlock(buf, s)
}

// EncodeSS encodes two back-to-back, independently padded S-blocks.
func EncodeSS(buf []byte, s1, s2 string) {
	off := putSBlock(buf, s1)
	putSBlock(buf[off:], s2)
}

// EncodeT32 encodes a single aligned int32 payload.
func EncodeT32(buf []byte, v int32) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(v))
}

// EncodeT64 encodes a single aligned int64 payload.
func EncodeT64(buf []byte, v int64) {
	binary.LittleEndian.PutUint64(buf[0:8], uint64(v))
}

// EncodeST32 encodes an S-block followed by an aligned int32 block.
func EncodeST32(buf []byte, s string, v int32) {
	off := putSBlock(buf, s)
	EncodeT32(buf[off:], v)
}

// EncodeST64 encodes an S-block followed by an aligned int64 block.
func EncodeST64(buf []byte, s string, v int64) {
	off := putSBlock(buf, s)
	EncodeT64(buf[off:], v)
}

// ParseInt32 reads an aligned int32 from the front of payload and returns the
// value along with the cursor advanced past it.
func ParseInt32(payload []byte) (int32, []byte) {
	v := int32(binary.LittleEndian.Uint32(payload[0:4]))
	return v, payload[AlignedSize(4):]
}

// ParseInt64 reads an aligned int64 from the front of payload and returns the
// value along with the cursor advanced past it.
func ParseInt64(payload []byte) (int64, []byte) {
	v := int64(binary.LittleEndian.Uint64(payload[0:8]))
	return v, payload[AlignedSize(8):]
}

// ParseString reads one S-block from the front of payload: the string's
// bytes, copied out of payload, and the cursor advanced past the aligned
// block. The returned string excludes the trailing NUL and stays valid after
// payload's page is unmapped.
func ParseString(payload []byte) (string, []byte) {
	n := binary.LittleEndian.Uint16(payload[0:2])
	s := string(payload[2 : 2+n])
	return s, payload[sBlockSize(int(n)):]
}
