package option

import (
	"github.com/bgrewell/isoforge/pkg/logging"
)

// ISOType represents the type of ISO image
type ISOType int

const (
	ISO_TYPE_ISO9660 = iota
	ISO_TYPE_UDF
)

type CreateOptions struct {
	ISOType          ISOType
	Preparer         string
	JolietEnabled    bool
	RockRidgeEnabled bool
	RootDir          string
	Logger           *logging.Logger
}

type CreateOption func(*CreateOptions)

func WithISOType(isoType ISOType) CreateOption {
	return func(o *CreateOptions) {
		o.ISOType = isoType
	}
}

// WithPreparer sets the data preparer identifier recorded in the primary
// and (if enabled) supplementary volume descriptors.
func WithPreparer(preparer string) CreateOption {
	return func(o *CreateOptions) {
		o.Preparer = preparer
	}
}

// WithJoliet enables writing a Joliet supplementary volume descriptor
// alongside the primary one.
func WithJoliet(enabled bool) CreateOption {
	return func(o *CreateOptions) {
		o.JolietEnabled = enabled
	}
}

// WithRockRidge enables writing Rock Ridge (RRIP) System Use entries onto
// every directory record, carrying POSIX ownership, permissions, timestamps,
// symlinks and the RRIP deep-directory relocation scheme.
func WithRockRidge(enabled bool) CreateOption {
	return func(o *CreateOptions) {
		o.RockRidgeEnabled = enabled
	}
}

// WithRootDir seeds the new image with the contents of a host directory.
func WithRootDir(path string) CreateOption {
	return func(o *CreateOptions) {
		o.RootDir = path
	}
}

func WithCreateLogger(logger *logging.Logger) CreateOption {
	return func(o *CreateOptions) {
		o.Logger = logger
	}
}
