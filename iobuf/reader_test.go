// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iobuf

import (
	"bytes"
	"testing"
)

// TestReaderLineFraming covers property 11 over "L1\nL2\r\nL3": the first
// two ReadLine calls yield L1 and L2, the first ReadFlush frees exactly the
// bytes of "L1\n", and the unterminated L3 is not yielded yet.
func TestReaderLineFraming(t *testing.T) {
	src := bytes.NewBufferString("L1\nL2\r\nL3")
	r := NewReader(src, 64)
	if _, err := r.Fill(); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	var line []byte
	if !r.ReadLine(&line) || string(line) != "L1" {
		t.Fatalf("first ReadLine = %q", line)
	}
	before := r.ReadSize()
	r.ReadFlush()
	if consumed := before - r.ReadSize(); consumed != 3 { // "L1\n"
		t.Fatalf("ReadFlush consumed %d bytes, want 3", consumed)
	}

	if !r.ReadLine(&line) || string(line) != "L2" {
		t.Fatalf("second ReadLine = %q", line)
	}
	r.ReadFlush()

	if r.ReadLine(&line) {
		t.Fatalf("third ReadLine should not find a terminator yet, got %q", line)
	}
}

// TestReaderStreamPipeS6 mirrors feeding "AAA\r\nBBB\n\nCCC": three
// read_line calls yield AAA, BBB, empty string; read_size then returns 3.
func TestReaderStreamPipeS6(t *testing.T) {
	src := bytes.NewBufferString("AAA\r\nBBB\n\nCCC")
	r := NewReader(src, 64)
	if _, err := r.Fill(); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	want := []string{"AAA", "BBB", ""}
	for i, w := range want {
		var line []byte
		if !r.ReadLine(&line) {
			t.Fatalf("ReadLine #%d: no line found", i)
		}
		if string(line) != w {
			t.Fatalf("ReadLine #%d = %q, want %q", i, line, w)
		}
		r.ReadFlush()
	}
	if got := r.ReadSize(); got != 3 {
		t.Fatalf("ReadSize() = %d, want 3", got)
	}
}

// TestReaderFixedFramingBackpressure covers property 12: a failed
// read_fixed(n) only fires readiness again once at least n bytes are
// buffered.
func TestReaderFixedFramingBackpressure(t *testing.T) {
	src := bytes.NewBufferString("abc")
	r := NewReader(src, 64)
	if _, err := r.Fill(); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	var out []byte
	if r.ReadFixed(&out, 10, 0) {
		t.Fatal("ReadFixed(10) should fail with only 3 bytes buffered")
	}

	more := bytes.NewBufferString("defghij")
	r.src = more
	if _, err := r.Fill(); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if !r.ReadFixed(&out, 10, 0) {
		t.Fatal("ReadFixed(10) should succeed once 10 bytes are buffered")
	}
	if string(out) != "abcdefghij" {
		t.Fatalf("ReadFixed yielded %q", out)
	}
}
