// Package writer provides a thin editing facade over an open iso9660.ISO9660
// image, grouping the mutation operations (adding files, links, boot
// entries and hybrid MBRs) that callers use while authoring or editing an
// image, as distinct from the read-only accessors on iso9660.ISO9660 itself.
package writer

import (
	"github.com/bgrewell/isoforge/pkg/filesystem"
	"github.com/bgrewell/isoforge/pkg/iso9660"
	"github.com/bgrewell/isoforge/pkg/iso9660/boot"
	"github.com/bgrewell/isoforge/pkg/iso9660/isohybrid"
)

// Session wraps an ISO9660 image open for editing. It holds no state of its
// own; every method delegates straight to the underlying image and marks it
// unpacked so the next Pack/Save picks up the change.
type Session struct {
	image *iso9660.ISO9660
}

// NewSession wraps an already-open or newly-created image for editing.
func NewSession(image *iso9660.ISO9660) *Session {
	return &Session{image: image}
}

// Image returns the underlying ISO9660 image being edited.
func (s *Session) Image() *iso9660.ISO9660 {
	return s.image
}

// AddFile adds a regular file's contents at path.
func (s *Session) AddFile(path string, data []byte) error {
	return s.image.AddFile(path, data)
}

// RemoveFile removes the file at path; directories are not removed.
func (s *Session) RemoveFile(path string) error {
	return s.image.RemoveFile(path)
}

// AddDirectory adds the directory tree rooted at sourcePath on the host
// filesystem under targetPath in the image.
func (s *Session) AddDirectory(sourcePath, targetPath string) error {
	return s.image.AddDirectory(sourcePath, targetPath)
}

// CreateDirectories creates path on the host filesystem and, under it, one
// directory for every directory recorded in the image.
func (s *Session) CreateDirectories(path string) error {
	return s.image.CreateDirectories(path)
}

// AddHardLink adds path as a hard link sharing targetPath's extent.
func (s *Session) AddHardLink(path, targetPath string) error {
	return s.image.AddHardLink(path, targetPath)
}

// AddSymlink adds path as a Rock Ridge symbolic link pointing at target.
func (s *Session) AddSymlink(path, target string) error {
	return s.image.AddSymlink(path, target)
}

// InPlaceUpdate replaces the contents of the file at path with data.
func (s *Session) InPlaceUpdate(path string, data []byte) error {
	return s.image.InPlaceUpdate(path, data)
}

// AddElTorito makes bootFilePath a bootable El Torito entry for the given
// platform and emulation mode.
func (s *Session) AddElTorito(bootFilePath string, platform boot.Platform, emulation boot.Emulation) error {
	return s.image.AddElTorito(bootFilePath, platform, emulation)
}

// RemoveElTorito drops El Torito boot support from the image.
func (s *Session) RemoveElTorito() error {
	return s.image.RemoveElTorito()
}

// AddIsohybrid overlays a hybrid MBR of the given partition type onto the
// image's system area so it can also be written to and booted from a raw
// USB block device.
func (s *Session) AddIsohybrid(partType isohybrid.PartitionType) {
	s.image.AddIsohybrid(partType)
}

// RemoveIsohybrid drops the hybrid MBR overlay from the image.
func (s *Session) RemoveIsohybrid() {
	s.image.RemoveIsohybrid()
}

// Lookup returns the entry recorded at path.
func (s *Session) Lookup(path string) (*filesystem.FileSystemEntry, error) {
	return s.image.Lookup(path)
}

// ListDir returns the direct children of dirPath.
func (s *Session) ListDir(dirPath string) ([]*filesystem.FileSystemEntry, error) {
	return s.image.ListDir(dirPath)
}

// Pack assigns extents to every pending change and finalizes the volume
// descriptors without writing the image out.
func (s *Session) Pack() error {
	return s.image.Pack()
}
