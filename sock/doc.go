// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sock is a non-blocking-capable BSD-socket façade over TCP, UDP and
// Unix-domain transports, with address parsing for all three families and a
// structured error taxonomy distinguishing would-block/timeout from real
// failures.
//
//	addr, err := sock.ParseAddress("[2001:db8::1]:8080")
//	dev, err := sock.Listen(addr, sock.BacklogDefault)
//	dev.SetNonblocking(true)
//	conn, peer, err := dev.Accept()
package sock
