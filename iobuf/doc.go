// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package iobuf is a zero-copy buffered read/write pair over a byte device,
// offering line and fixed-size framing on the read side and reserved bulk
// writes on the write side -- the layer asynchronous protocol handlers sit
// on top of sock.Device.
//
//	r := iobuf.NewReader(conn, 4096)
//	for {
//	    if _, err := r.Fill(); err != nil {
//	        return err
//	    }
//	    var line []byte
//	    for r.ReadLine(&line) {
//	        handle(line)
//	        r.ReadFlush()
//	    }
//	}
package iobuf
