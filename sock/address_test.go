// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sock

import "testing"

func TestParseAddressIPv6BracketedPort(t *testing.T) {
	addr, err := ParseAddress("[2001:db8::1]:8080")
	if err != nil {
		t.Fatalf("ParseAddress failed: %v", err)
	}
	if addr.Family() != FamilyIPv6 {
		t.Fatalf("family = %v, want IPv6", addr.Family())
	}
	if addr.Port() != 8080 {
		t.Fatalf("port = %d, want 8080", addr.Port())
	}
	want := []byte{0x20, 0x01, 0x0d, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x01}
	got := addr.IP().To16()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("address bytes = % x, want % x", got, want)
		}
	}
	if got := addr.String(); got != "[2001:db8::1]:8080" {
		t.Fatalf("String() = %q, want %q", got, "[2001:db8::1]:8080")
	}
}

func TestParseAddressIPv4(t *testing.T) {
	addr, err := ParseAddress("127.0.0.1:9000")
	if err != nil {
		t.Fatalf("ParseAddress failed: %v", err)
	}
	if addr.Family() != FamilyIPv4 {
		t.Fatalf("family = %v, want IPv4", addr.Family())
	}
	if addr.Port() != 9000 {
		t.Fatalf("port = %d, want 9000", addr.Port())
	}
	if got := addr.String(); got != "127.0.0.1:9000" {
		t.Fatalf("String() = %q, want %q", got, "127.0.0.1:9000")
	}
}

func TestParseAddressUnix(t *testing.T) {
	addr, err := ParseAddress("/tmp/evoq.sock")
	if err != nil {
		t.Fatalf("ParseAddress failed: %v", err)
	}
	if addr.Family() != FamilyUnix {
		t.Fatalf("family = %v, want Unix", addr.Family())
	}
	if addr.Path() != "/tmp/evoq.sock" {
		t.Fatalf("path = %q", addr.Path())
	}
}

func TestNewUnixPathTooLong(t *testing.T) {
	long := make([]byte, maxUnixPathLen+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err := NewUnix("/" + string(long))
	if err == nil {
		t.Fatal("expected error for over-length Unix path")
	}
	var sockErr *Error
	if !errorsAs(err, &sockErr) || sockErr.Kind != KindSize {
		t.Fatalf("expected KindSize error, got %v", err)
	}
}

func errorsAs(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
