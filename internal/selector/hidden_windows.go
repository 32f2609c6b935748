//go:build windows

package selector

import "golang.org/x/sys/windows"

// IsHidden reports whether path carries the hidden file attribute.
// Entries whose attributes cannot be read are treated as visible.
func IsHidden(path string) bool {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}
