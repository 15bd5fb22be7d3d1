package types

// Platform is the kind of title a game file holds
type Platform int

const (
	PlatformUnknown Platform = iota
	PlatformGameCubeDisc
	PlatformWiiDisc
	PlatformWiiWAD
	PlatformELFOrDOL
)

// String returns a short display name
func (p Platform) String() string {
	switch p {
	case PlatformGameCubeDisc:
		return "GameCube"
	case PlatformWiiDisc:
		return "Wii"
	case PlatformWiiWAD:
		return "WiiWare"
	case PlatformELFOrDOL:
		return "Homebrew"
	default:
		return "Unknown"
	}
}

// IsDisc reports whether the platform is a disc image
func (p Platform) IsDisc() bool {
	return p == PlatformGameCubeDisc || p == PlatformWiiDisc
}

// IsPackage reports whether the platform is an installable package
func (p Platform) IsPackage() bool {
	return p == PlatformWiiWAD
}

// HasWiiSave reports whether titles of this platform keep save data in the NAND
func (p Platform) HasWiiSave() bool {
	return p == PlatformWiiDisc || p == PlatformWiiWAD
}

// BlobType is the container format of a disc image or package file
type BlobType int

const (
	BlobUnknown BlobType = iota
	BlobPlain
	BlobGCZ
	BlobCISO
	BlobWBFS
	BlobTGC
)

// String returns the format name
func (b BlobType) String() string {
	switch b {
	case BlobPlain:
		return "ISO"
	case BlobGCZ:
		return "GCZ"
	case BlobCISO:
		return "CISO"
	case BlobWBFS:
		return "WBFS"
	case BlobTGC:
		return "TGC"
	default:
		return "Unknown"
	}
}

// Compressed reports whether the format is the compressed kind the converter can expand
func (b BlobType) Compressed() bool {
	return b == BlobGCZ
}
