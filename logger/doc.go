// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package logger provides a background, queue-backed file logger: producers
// call Check/Log/LogDirect from any goroutine without ever touching the
// filesystem directly, and a single consumer goroutine drains the queue,
// formats each line, and writes it to a rotation-aware file sink.
//
//	lg := logger.New(256)
//	if err := lg.Start("service.log", 100, 5); err != nil {
//		panic(err)
//	}
//	defer lg.Shutdown()
//
//	if lg.Check(logger.LevelInfo) {
//		lg.LogDirect(logger.LevelInfo, "listening")
//	}
package logger
