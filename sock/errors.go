// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sock

import (
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrorKind enumerates the error taxonomy a socket surfaces, mapped from OS
// errno the way the C socket library this is modeled on maps them.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindClosed
	KindWouldBlock
	KindTimeout
	KindNotFound
	KindExists
	KindSize
	KindLength
	KindAccess
	KindLimit
	KindFail
	KindInval
	KindInvalOp
	KindSpace
	KindSignal
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindClosed:
		return "closed"
	case KindWouldBlock:
		return "would-block"
	case KindTimeout:
		return "timeout"
	case KindNotFound:
		return "not-found"
	case KindExists:
		return "exists"
	case KindSize:
		return "size"
	case KindLength:
		return "length"
	case KindAccess:
		return "access"
	case KindLimit:
		return "limit"
	case KindFail:
		return "fail"
	case KindInval:
		return "inval"
	case KindInvalOp:
		return "inval-op"
	case KindSpace:
		return "space"
	case KindSignal:
		return "signal"
	default:
		return "unknown"
	}
}

// Error is the structured error type sock and iobuf operations return.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sock: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("sock: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrWouldBlock is the non-blocking control-flow signal a Device read/write
// returns instead of blocking; backed by iox's own would-block sentinel so
// callers can test with errors.Is against either.
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err is (or wraps) ErrWouldBlock.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

func wrapWouldBlock(op string) error {
	return &Error{Kind: KindWouldBlock, Op: op, Err: ErrWouldBlock}
}
