// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iobuf

import (
	"bytes"
	"testing"
)

func TestWriterWriteAndFlush(t *testing.T) {
	var dst bytes.Buffer
	w := NewWriter(&dst, 16)
	if _, err := w.Write([]byte("hello ")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := w.Write([]byte("world")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := dst.String(); got != "hello world" {
		t.Fatalf("flushed %q, want %q", got, "hello world")
	}
}

func TestBulkWriteCommit(t *testing.T) {
	var dst bytes.Buffer
	w := NewWriter(&dst, 16)
	bw := w.BulkWrite(5)
	bw.AddString("ab")
	bw.AddByte('c')
	bw.Add([]byte("de"))
	bw.Commit()

	if _, err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := dst.String(); got != "abcde" {
		t.Fatalf("flushed %q, want %q", got, "abcde")
	}
}

func TestBulkWriteAbortDiscards(t *testing.T) {
	var dst bytes.Buffer
	w := NewWriter(&dst, 16)
	if _, err := w.Write([]byte("keep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	bw := w.BulkWrite(3)
	bw.AddString("xy")
	bw.Abort()

	if _, err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := dst.String(); got != "keep" {
		t.Fatalf("flushed %q, want %q", got, "keep")
	}
}

func TestBulkWriteCommitMismatchPanics(t *testing.T) {
	var dst bytes.Buffer
	w := NewWriter(&dst, 16)
	bw := w.BulkWrite(5)
	bw.AddString("ab")

	defer func() {
		if recover() == nil {
			t.Fatal("Commit with a short fill should panic")
		}
	}()
	bw.Commit()
}
