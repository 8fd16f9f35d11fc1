package input

import (
	"context"
	"log/slog"
	"runtime"
	"unicode"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/junsooki/keyscreen/internal/errors"
)

var (
	user32                  = windows.NewLazySystemDLL(`user32.dll`)
	procSetWindowsHookExW   = user32.NewProc(`SetWindowsHookExW`)
	procUnhookWindowsHookEx = user32.NewProc(`UnhookWindowsHookEx`)
	procCallNextHookEx      = user32.NewProc(`CallNextHookEx`)
	procGetMessageW         = user32.NewProc(`GetMessageW`)
	procPeekMessageW        = user32.NewProc(`PeekMessageW`)
	procPostThreadMessageW  = user32.NewProc(`PostThreadMessageW`)
	procGetKeyState         = user32.NewProc(`GetKeyState`)
	procToUnicode           = user32.NewProc(`ToUnicode`)
)

const (
	whKeyboardLL = 13
	wmKeyDown    = 0x0100
	wmSysKeyDown = 0x0104
	wmQuit       = 0x0012
	pmNoRemove   = 0x0000

	vkBack    = 0x08
	vkTab     = 0x09
	vkReturn  = 0x0D
	vkShift   = 0x10
	vkControl = 0x11
	vkMenu    = 0x12
	vkCapital = 0x14
	vkEscape  = 0x1B
	vkSpace   = 0x20
	vkLShift  = 0xA0
	vkRShift  = 0xA1
	vkLCtrl   = 0xA2
	vkRCtrl   = 0xA3
	vkLMenu   = 0xA4
	vkRMenu   = 0xA5

	// ToUnicode flag: leave the keyboard state (dead keys) untouched
	toUnicodeNoStateChange = 0x4
)

type kbdllHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type winMsg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

type hookSource struct {
	logger *slog.Logger
}

// NewSystemSource installs a low-level keyboard hook (WH_KEYBOARD_LL).
func NewSystemSource(logger *slog.Logger) Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &hookSource{logger: logger}
}

func (s *hookSource) Run(ctx context.Context, handle func(KeyEvent)) error {
	// the hook is bound to the message loop of this thread
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	// create the thread message queue before anyone posts WM_QUIT to it
	var m winMsg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmNoRemove)
	tid := windows.GetCurrentThreadId()

	cb := windows.NewCallback(func(code, wParam, lParam uintptr) uintptr {
		if int32(code) >= 0 && (wParam == wmKeyDown || wParam == wmSysKeyDown) {
			kb := (*kbdllHookStruct)(unsafe.Pointer(lParam))
			handle(KeyEvent{Name: vkName(kb.VkCode, kb.ScanCode)})
		}
		ret, _, _ := procCallNextHookEx.Call(0, code, wParam, lParam)
		return ret
	})
	hook, _, err := procSetWindowsHookExW.Call(whKeyboardLL, cb, 0, 0)
	if hook == 0 {
		return errors.WrapPrefix(err, `SetWindowsHookExW`, 0)
	}
	defer procUnhookWindowsHookEx.Call(hook)
	s.logger.Debug(`keyboard hook installed`)

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			procPostThreadMessageW.Call(uintptr(tid), wmQuit, 0, 0)
		case <-stopped:
		}
	}()

	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 {
			return nil
		}
	}
}

func vkName(vk, scan uint32) string {
	switch vk {
	case vkBack:
		return KeyBackspace
	case vkSpace:
		return KeySpace
	case vkReturn:
		return KeyEnter
	case vkTab:
		return KeyTab
	case vkEscape:
		return KeyEscape
	case vkShift, vkLShift, vkRShift:
		return KeyShift
	case vkControl, vkLCtrl, vkRCtrl:
		return KeyCtrl
	case vkMenu, vkLMenu, vkRMenu:
		return KeyAlt
	}
	var state [256]byte
	for _, k := range []uint32{vkShift, vkLShift, vkRShift} {
		if keyDown(k) {
			state[k] = 0x80
		}
	}
	if keyToggled(vkCapital) {
		state[vkCapital] = 0x01
	}
	var buf [4]uint16
	n, _, _ := procToUnicode.Call(
		uintptr(vk), uintptr(scan),
		uintptr(unsafe.Pointer(&state[0])),
		uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)),
		toUnicodeNoStateChange,
	)
	if int32(n) == 1 && unicode.IsPrint(rune(buf[0])) {
		return string(rune(buf[0]))
	}
	return KeyUnknown
}

func keyDown(vk uint32) bool {
	r, _, _ := procGetKeyState.Call(uintptr(vk))
	return uint16(r)&0x8000 != 0
}

func keyToggled(vk uint32) bool {
	r, _, _ := procGetKeyState.Call(uintptr(vk))
	return r&1 != 0
}
