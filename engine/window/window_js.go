//go:build js

package window

import "errors"

// ErrUnsupported is returned in the browser, where the canvas is owned by the page and the
// renderer is built on gl.NewWebGLContext directly.
var ErrUnsupported = errors.New("window: native windows are not available in the browser")

func newPlatformWindow(*engineWindow) error { return ErrUnsupported }

func platformIsRunningCheck(*engineWindow) bool { return false }

func platformCloseWindow(*engineWindow) error { return ErrUnsupported }

func platformProcessMessages(*engineWindow) bool { return false }

func platformSwapBuffers(*engineWindow) {}
