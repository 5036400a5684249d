// Package clipboard wraps the system clipboard behind the small interface
// the render session needs.
package clipboard

import "github.com/atotto/clipboard"

// System copies text to the OS clipboard.
type System struct{}

// Copy implements markdown.Copier.
func (System) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether a clipboard backend exists on this platform
// (headless Linux without xclip/xsel has none).
func Available() bool {
	return !clipboard.Unsupported
}
