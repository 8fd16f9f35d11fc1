//go:build darwin && cgo

package input

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <stdint.h>

int keyscreenTapStart(void);
void keyscreenTapPoll(double seconds);
void keyscreenTapStop(void);
*/
import "C"

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"unicode"

	"github.com/junsooki/keyscreen/internal/errors"
)

// macOS virtual key codes
const (
	kVKReturn = 36
	kVKTab    = 48
	kVKSpace  = 49
	kVKDelete = 51
	kVKEscape = 53
)

// the event tap is process wide, so is its handler
var (
	tapMu      sync.Mutex
	tapHandler func(KeyEvent)
)

//export keyscreenTapKey
func keyscreenTapKey(keycode C.int64_t, ch C.uint16_t, n C.int) {
	tapMu.Lock()
	handle := tapHandler
	tapMu.Unlock()
	if handle == nil {
		return
	}
	handle(KeyEvent{Name: tapKeyName(int64(keycode), rune(ch), int(n))})
}

func tapKeyName(keycode int64, ch rune, n int) string {
	switch keycode {
	case kVKDelete:
		return KeyBackspace
	case kVKSpace:
		return KeySpace
	case kVKReturn:
		return KeyEnter
	case kVKTab:
		return KeyTab
	case kVKEscape:
		return KeyEscape
	}
	if n == 1 && unicode.IsPrint(ch) {
		return string(ch)
	}
	return KeyUnknown
}

type tapSource struct {
	logger *slog.Logger
}

// NewSystemSource listens through a listen-only CGEventTap. The process
// needs the Accessibility (Input Monitoring) permission.
func NewSystemSource(logger *slog.Logger) Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &tapSource{logger: logger}
}

func (s *tapSource) Run(ctx context.Context, handle func(KeyEvent)) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	tapMu.Lock()
	if tapHandler != nil {
		tapMu.Unlock()
		return errors.New(`event tap already running`)
	}
	tapHandler = handle
	tapMu.Unlock()
	defer func() {
		tapMu.Lock()
		tapHandler = nil
		tapMu.Unlock()
	}()

	if C.keyscreenTapStart() != 0 {
		return errors.New(`CGEventTapCreate failed, grant Accessibility permission`)
	}
	defer C.keyscreenTapStop()
	s.logger.Debug(`event tap installed`)

	for ctx.Err() == nil {
		C.keyscreenTapPoll(0.1)
	}
	return nil
}
