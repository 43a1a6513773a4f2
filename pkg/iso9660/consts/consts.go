// Package consts re-exports the ECMA-119 constants from pkg/consts for
// packages nested under pkg/iso9660. It exists so that the nested tree
// can refer to a package named "consts" relative to its own import path
// instead of reaching back to the module root.
package consts

import "github.com/bgrewell/isoforge/pkg/consts"

const (
	ISO9660_SYSTEM_AREA_SECTORS    = consts.ISO9660_SYSTEM_AREA_SECTORS
	ISO9660_STD_IDENTIFIER         = consts.ISO9660_STD_IDENTIFIER
	ISO9660_VOLUME_DESC_VERSION    = consts.ISO9660_VOLUME_DESC_VERSION
	ISO9660_SECTOR_SIZE            = consts.ISO9660_SECTOR_SIZE
	ISO9660_VOLUME_DESC_HEADER_SIZE = consts.ISO9660_VOLUME_DESC_HEADER_SIZE
	ISO9660_APPLICATION_USE_SIZE   = consts.ISO9660_APPLICATION_USE_SIZE

	JOLIET_LEVEL_1_ESCAPE = consts.JOLIET_LEVEL_1_ESCAPE
	JOLIET_LEVEL_2_ESCAPE = consts.JOLIET_LEVEL_2_ESCAPE
	JOLIET_LEVEL_3_ESCAPE = consts.JOLIET_LEVEL_3_ESCAPE

	EL_TORITO_BOOT_SYSTEM_ID = consts.EL_TORITO_BOOT_SYSTEM_ID

	A_CHARACTERS = consts.A_CHARACTERS
	D_CHARACTERS = consts.D_CHARACTERS

	ISO9660_SEPARATOR_1 = consts.ISO9660_SEPARATOR_1
	ISO9660_SEPARATOR_2 = consts.ISO9660_SEPARATOR_2

	ISO9660_FILLER = consts.ISO9660_FILLER
)
