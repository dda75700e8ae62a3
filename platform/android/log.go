//go:build android

package android

/*
#cgo LDFLAGS: -llog

#include <stdlib.h>
#include <android/log.h>
*/
import "C"

import (
	"unsafe"

	"github.com/devblok/korushell/logging"
)

// LogSink writes to the Android system log
type LogSink struct{}

// Write implements interface
func (LogSink) Write(prio logging.Priority, tag, msg string) {
	ctag := C.CString(tag)
	defer C.free(unsafe.Pointer(ctag))
	cmsg := C.CString(msg)
	defer C.free(unsafe.Pointer(cmsg))

	C.__android_log_write(C.int(prio), ctag, cmsg)
}
