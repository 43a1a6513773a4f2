package systemarea

import (
	"github.com/bgrewell/isoforge/pkg/iso9660/consts"
	"github.com/bgrewell/isoforge/pkg/iso9660/info"
)

// SystemArea is the first 16 logical blocks (sectors 0-15) of an ISO9660
// image, reserved by ECMA-119 for system use and never interpreted by the
// ISO9660 driver itself. Most images leave it zeroed; a hybrid image
// overlays a partition table on its first 512 bytes.
type SystemArea struct {
	Contents [consts.ISO9660_SECTOR_SIZE * consts.ISO9660_SYSTEM_AREA_SECTORS]byte
}

func (sa *SystemArea) Type() string       { return "System Area" }
func (sa *SystemArea) Name() string       { return "System Area" }
func (sa *SystemArea) Description() string { return "" }

func (sa *SystemArea) Properties() map[string]interface{} {
	return map[string]interface{}{
		"Sectors": consts.ISO9660_SYSTEM_AREA_SECTORS,
	}
}

func (sa *SystemArea) Offset() int64 { return 0 }
func (sa *SystemArea) Size() int     { return len(sa.Contents) }

func (sa *SystemArea) GetObjects() []info.ImageObject {
	return []info.ImageObject{sa}
}

func (sa *SystemArea) Marshal() ([]byte, error) {
	return sa.Contents[:], nil
}
