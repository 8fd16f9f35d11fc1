//go:build darwin && cgo

package permissions

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation -framework CoreGraphics
#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>
#include <CoreGraphics/CoreGraphics.h>

static int axTrusted(int prompt) {
    CFMutableDictionaryRef opts = CFDictionaryCreateMutable(NULL, 0, NULL, NULL);
    CFDictionarySetValue(opts, kAXTrustedCheckOptionPrompt, prompt ? kCFBooleanTrue : kCFBooleanFalse);
    Boolean trusted = AXIsProcessTrustedWithOptions(opts);
    CFRelease(opts);
    return trusted ? 1 : 0;
}

// Input Monitoring, required by listen-only event taps since 10.15.
static int listenAccess(int request) {
    return request ? CGRequestListenEventAccess() : CGPreflightListenEventAccess();
}
*/
import "C"

// HasAccessibility reports whether the event tap can receive key events.
func HasAccessibility() bool {
	return C.listenAccess(0) != 0 || C.axTrusted(0) != 0
}

// RequestAccessibility asks for Input Monitoring access. It returns true if
// access was already granted; otherwise macOS shows System Settings and the
// process must be restarted once the user allows it.
func RequestAccessibility() bool {
	if C.listenAccess(1) != 0 {
		return true
	}
	return C.axTrusted(1) != 0
}
