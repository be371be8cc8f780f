//go:build !unix

package timekeeper

func newPlatformSource() Source {
	return NewProcessSource()
}
