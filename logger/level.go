// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logger

// Level is log message severity, increasing from most to least severe.
// Messages less severe than a Logger's current level are dropped before
// ever reaching the queue.
type Level int32

const (
	LevelDisabled Level = iota // logging disabled: Check never passes
	LevelAlert                 // critical alert, program may be unstable (ALRT)
	LevelError                 // something isn't working as expected (ERRR)
	LevelWarn                  // potential issue that may lead to an error (WARN)
	LevelInfo                  // notice or context (INFO)
	LevelDebug                 // high-level debug info (dbug)
	LevelDebugLow              // low-level/internal debug info (dbgl)
)

var levelNames = [...]string{"ALRT", "ERRR", "WARN", "INFO", "dbug", "dbgl"}

func (l Level) String() string {
	if l <= LevelDisabled || int(l) > len(levelNames) {
		return "????"
	}
	return levelNames[l-1]
}
