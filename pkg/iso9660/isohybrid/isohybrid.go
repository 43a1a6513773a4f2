// Package isohybrid builds the hybrid MBR that lets an ECMA-119 image also
// boot as a raw BIOS disk or USB image: a standard DOS partition table laid
// over the otherwise-unused first 512 bytes of the volume's system area,
// carrying one partition that spans the whole image.
package isohybrid

import (
	"encoding/binary"
	"fmt"

	"github.com/bgrewell/isoforge/pkg/iso9660/info"
)

const (
	// Size is the on-disk size of a hybrid MBR: 440 bytes of boot code, a
	// 4-byte disk signature, 2 reserved bytes, a 64-byte, four-entry
	// partition table, and the 2-byte 0x55AA boot signature.
	Size = 512

	partitionTableOffset = 446
	partitionEntrySize   = 16
	signatureOffset      = 510
	bootSignature        = 0xAA55

	// BytesPerSector is the sector size MBR partition fields (StartLBA,
	// SectorCount) are expressed in; this is fixed at 512 regardless of
	// the ISO9660 logical block size the rest of the image uses.
	BytesPerSector = 512
)

// PartitionType mirrors the single byte the DOS partition table uses to
// identify a partition's contents. ISO9660 images are conventionally
// published under 0x96, but 0x00 (empty, no partition) is also valid for
// a partition entry left unused.
type PartitionType byte

const (
	TypeEmpty   PartitionType = 0x00
	TypeISO9660 PartitionType = 0x96
	TypeFAT16   PartitionType = 0x0e
	TypeLinux   PartitionType = 0x83
)

// Partition is one of the four entries in the MBR's partition table.
type Partition struct {
	Bootable    bool
	Type        PartitionType
	StartLBA    uint32 // in 512-byte sectors
	SectorCount uint32 // in 512-byte sectors
}

// MBR is a 512-byte hybrid Master Boot Record.
type MBR struct {
	// BootCode is copied verbatim into the first 440 bytes of the MBR; a
	// nil or short slice is zero-padded. Real isohybrid images carry an
	// isolinux boot stub here, which this package does not synthesize.
	BootCode []byte
	// DiskSignature is the 4-byte disk identifier at offset 440; many
	// tools leave this zero, which is accepted by every BIOS this format
	// targets.
	DiskSignature uint32
	Partitions    [4]Partition

	// --- Fields that are not part of the on-disk MBR itself ---
	ObjectLocation int64
	ObjectSize     uint32
}

// New builds a hybrid MBR with a single bootable partition of type
// partType spanning the whole image, which is imageSectors ISO9660 logical
// blocks (2048 bytes each) long.
func New(imageSectors uint32, partType PartitionType) *MBR {
	sectorsPerBlock := uint32(2048 / BytesPerSector)
	return &MBR{
		Partitions: [4]Partition{
			{
				Bootable:    true,
				Type:        partType,
				StartLBA:    0,
				SectorCount: imageSectors * sectorsPerBlock,
			},
		},
	}
}

func (m *MBR) Type() string        { return "Hybrid MBR" }
func (m *MBR) Name() string        { return "ISO Hybrid MBR" }
func (m *MBR) Description() string { return "" }

func (m *MBR) Properties() map[string]interface{} {
	parts := make([]string, 0, 4)
	for _, p := range m.Partitions {
		if p.Type == TypeEmpty {
			continue
		}
		parts = append(parts, fmt.Sprintf("type=0x%02x start=%d count=%d", byte(p.Type), p.StartLBA, p.SectorCount))
	}
	return map[string]interface{}{
		"Partitions": parts,
	}
}

func (m *MBR) Offset() int64               { return m.ObjectLocation }
func (m *MBR) Size() int                   { return int(m.ObjectSize) }
func (m *MBR) GetObjects() []info.ImageObject { return []info.ImageObject{m} }

// chsBytes encodes an address in the legacy cylinder/head/sector triplet.
// Every sector a hybrid image addresses is well beyond what 10-bit
// cylinder numbers can express, so this follows the convention real
// isohybrid tools use and emits the maxed-out CHS value that signals "use
// the LBA fields instead".
func chsBytes() [3]byte {
	return [3]byte{0xfe, 0xff, 0xff}
}

// Marshal converts the MBR into its 512-byte on-disk representation.
func (m *MBR) Marshal() ([]byte, error) {
	buf := make([]byte, Size)

	n := copy(buf[0:440], m.BootCode)
	_ = n

	binary.LittleEndian.PutUint32(buf[440:444], m.DiskSignature)
	// buf[444:446] is a 2-byte reserved field, left zero.

	for i, p := range m.Partitions {
		off := partitionTableOffset + i*partitionEntrySize
		entry := buf[off : off+partitionEntrySize]
		if p.Type == TypeEmpty {
			continue
		}
		if p.Bootable {
			entry[0] = 0x80
		}
		startCHS := chsBytes()
		copy(entry[1:4], startCHS[:])
		entry[4] = byte(p.Type)
		endCHS := chsBytes()
		copy(entry[5:8], endCHS[:])
		binary.LittleEndian.PutUint32(entry[8:12], p.StartLBA)
		binary.LittleEndian.PutUint32(entry[12:16], p.SectorCount)
	}

	binary.LittleEndian.PutUint16(buf[signatureOffset:signatureOffset+2], bootSignature)

	return buf, nil
}

// Unmarshal parses a 512-byte buffer into the MBR.
func (m *MBR) Unmarshal(data []byte) error {
	if len(data) < Size {
		return fmt.Errorf("isohybrid: MBR data too short: got %d bytes, want %d", len(data), Size)
	}
	if sig := binary.LittleEndian.Uint16(data[signatureOffset : signatureOffset+2]); sig != bootSignature {
		return fmt.Errorf("isohybrid: bad boot signature 0x%04x", sig)
	}

	m.BootCode = append([]byte(nil), data[0:440]...)
	m.DiskSignature = binary.LittleEndian.Uint32(data[440:444])

	for i := 0; i < 4; i++ {
		off := partitionTableOffset + i*partitionEntrySize
		entry := data[off : off+partitionEntrySize]
		if entry[4] == 0 {
			continue
		}
		m.Partitions[i] = Partition{
			Bootable:    entry[0]&0x80 != 0,
			Type:        PartitionType(entry[4]),
			StartLBA:    binary.LittleEndian.Uint32(entry[8:12]),
			SectorCount: binary.LittleEndian.Uint32(entry[12:16]),
		}
	}

	return nil
}
