package descriptor

import (
	"fmt"
	"github.com/bgrewell/isoforge/pkg/consts"
	"github.com/bgrewell/isoforge/pkg/helpers"
	"github.com/bgrewell/isoforge/pkg/iso9660/directory"
	"github.com/bgrewell/isoforge/pkg/iso9660/info"
	"github.com/bgrewell/isoforge/pkg/logging"
	"strings"
	"time"
)

const (
	// Boot System Use Size is the size of a sector minus 71 bytes
	BOOT_SYSTEM_USE_SIZE = consts.ISO9660_SECTOR_SIZE - 71
)

type BootRecordDescriptor struct {
	VolumeDescriptorHeader
	BootRecordBody
}

// A Boot Record carries no volume identification fields of its own; these
// accessors exist only to satisfy the VolumeDescriptor interface and always
// report the zero value.

func (d *BootRecordDescriptor) VolumeIdentifier() string {
	return ""
}

func (d *BootRecordDescriptor) SystemIdentifier() string {
	return d.BootRecordBody.BootSystemIdentifier
}

func (d *BootRecordDescriptor) VolumeSetIdentifier() string {
	return ""
}

func (d *BootRecordDescriptor) PublisherIdentifier() string {
	return ""
}

func (d *BootRecordDescriptor) DataPreparerIdentifier() string {
	return ""
}

func (d *BootRecordDescriptor) ApplicationIdentifier() string {
	return ""
}

func (d *BootRecordDescriptor) CopyrightFileIdentifier() string {
	return ""
}

func (d *BootRecordDescriptor) AbstractFileIdentifier() string {
	return ""
}

func (d *BootRecordDescriptor) BibliographicFileIdentifier() string {
	return ""
}

func (d *BootRecordDescriptor) VolumeCreationDateTime() time.Time {
	return time.Time{}
}

func (d *BootRecordDescriptor) VolumeModificationDateTime() time.Time {
	return time.Time{}
}

func (d *BootRecordDescriptor) VolumeExpirationDateTime() time.Time {
	return time.Time{}
}

func (d *BootRecordDescriptor) VolumeEffectiveDateTime() time.Time {
	return time.Time{}
}

func (d *BootRecordDescriptor) HasJoliet() bool {
	return false
}

func (d *BootRecordDescriptor) HasRockRidge() bool {
	return false
}

func (d *BootRecordDescriptor) RootDirectory() *directory.DirectoryRecord {
	return nil
}

// BootCatalogLBA returns the logical block address of the El Torito boot
// catalog, stored as a little-endian uint32 in the first four bytes of the
// Boot System Use field.
func (d *BootRecordDescriptor) BootCatalogLBA() uint32 {
	return uint32(d.BootRecordBody.BootSystemUse[0]) |
		uint32(d.BootRecordBody.BootSystemUse[1])<<8 |
		uint32(d.BootRecordBody.BootSystemUse[2])<<16 |
		uint32(d.BootRecordBody.BootSystemUse[3])<<24
}

// GetObjects returns the descriptor as a single info.ImageObject so it can
// be written alongside the rest of the image's objects.
func (d *BootRecordDescriptor) GetObjects() []info.ImageObject {
	return []info.ImageObject{&descriptorObject{
		kind:        "Volume Descriptor",
		name:        "Boot Record",
		description: d.BootRecordBody.BootIdentifier,
		properties: map[string]interface{}{
			"BootSystemIdentifier": d.BootRecordBody.BootSystemIdentifier,
		},
		offset: d.BootRecordBody.ObjectLocation * consts.ISO9660_SECTOR_SIZE,
		src:    d,
	}}
}

type BootRecordBody struct {
	// Boot System Identifier specifies and identification of a system which can recognize and act upon the contents of
	// the Boot Identifier and Boot System Use fields in the Boot Record. (a-characters)
	BootSystemIdentifier string `json:"boot_system_identifier"`
	// Boot Identifier shall specify an identification of the boot system specified in the Boot System Use field of the
	// Boot Record. (a-characters)
	BootIdentifier string `json:"boot_identifier"`
	// Boot System Use is a byte field that is used by the boot system specified by the identifier.
	BootSystemUse [BOOT_SYSTEM_USE_SIZE]byte `json:"boot_system_use"`
	// Logger
	Logger *logging.Logger
	// --- Fields that are not part of the ISO9660 object ---
	// ObjectLocation is the LBA this descriptor occupies in the volume
	// descriptor set.
	ObjectLocation int64 `json:"object_location"`
}

// Marshal converts the BootRecordDescriptor into its 2048-byte on-disk representation.
func (d *BootRecordDescriptor) Marshal() ([consts.ISO9660_SECTOR_SIZE]byte, error) {
	var buf [consts.ISO9660_SECTOR_SIZE]byte
	offset := 0

	// 1. Marshal the VolumeDescriptorHeader (first 7 bytes).
	headerBytes, err := d.VolumeDescriptorHeader.Marshal()
	if err != nil {
		return buf, fmt.Errorf("failed to marshal VolumeDescriptorHeader: %w", err)
	}
	copy(buf[0:7], headerBytes[:])
	offset += 7

	// 2. Boot System Identifier: 32 bytes.
	sysIDBytes := helpers.PadString(d.BootRecordBody.BootSystemIdentifier, 32)
	copy(buf[offset:offset+32], sysIDBytes)
	offset += 32

	// 3. Boot Identifier: 32 bytes.
	bootIDBytes := helpers.PadString(d.BootRecordBody.BootIdentifier, 32)
	copy(buf[offset:offset+32], bootIDBytes)
	offset += 32

	// 4. Boot System Use: remaining bytes.
	copy(buf[offset:offset+BOOT_SYSTEM_USE_SIZE], d.BootRecordBody.BootSystemUse[:])
	offset += BOOT_SYSTEM_USE_SIZE

	if offset != consts.ISO9660_SECTOR_SIZE {
		return buf, fmt.Errorf("marshal BootRecordDescriptor: incorrect offset %d", offset)
	}
	return buf, nil
}

// Unmarshal parses a 2048-byte sector into the BootRecordDescriptor.
func (d *BootRecordDescriptor) Unmarshal(data [consts.ISO9660_SECTOR_SIZE]byte) error {
	offset := 0

	// 1. Unmarshal the VolumeDescriptorHeader (first 7 bytes).
	var headerBytes [7]byte
	copy(headerBytes[:], data[0:7])
	if err := d.VolumeDescriptorHeader.Unmarshal(headerBytes); err != nil {
		return fmt.Errorf("failed to unmarshal VolumeDescriptorHeader: %w", err)
	}
	offset += 7

	// 2. Boot System Identifier: 32 bytes.
	// Trim trailing spaces.
	d.BootRecordBody.BootSystemIdentifier = strings.TrimRight(string(data[offset:offset+32]), " ")
	offset += 32

	// 3. Boot Identifier: 32 bytes.
	d.BootRecordBody.BootIdentifier = strings.TrimRight(string(data[offset:offset+32]), " ")
	offset += 32

	// 4. Boot System Use: remaining BOOT_SYSTEM_USE_SIZE bytes.
	copy(d.BootRecordBody.BootSystemUse[:], data[offset:offset+BOOT_SYSTEM_USE_SIZE])
	offset += BOOT_SYSTEM_USE_SIZE

	if offset != consts.ISO9660_SECTOR_SIZE {
		return fmt.Errorf("unmarshal BootRecordDescriptor: incorrect offset %d", offset)
	}
	return nil
}
