package game

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gamelist/internal/errors"
	"gamelist/internal/log"
	"gamelist/pkg/types"

	"github.com/gabriel-vasile/mimetype"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/zlib"
	"github.com/spf13/afero"
)

const (
	wiiMagic  = 0x5D1C9EA3
	gcMagic   = 0xC2339F3D
	gczMagic  = 0xB10BC001
	tgcMagic  = 0xAE0F38A2
	wadHeader = 0x20

	discHeaderLen = 0x60
	cisoHeaderLen = 0x8000
	gczHeaderLen  = 32
	wiiTitleHi    = 0x00010000

	// Bounds on block 0 read from the block table
	maxGCZBlock  = 1 << 24
	maxGCZOffset = 1 << 40

	DefaultCacheSize = 512
)

// Inspector reads game metadata from file headers. Results are cached by
// path and dropped when the file's size or modification time changes.
type Inspector struct {
	fs    afero.Fs
	cache *lru.Cache[string, *File]
}

// NewInspector creates an inspector over fs holding up to size entries
func NewInspector(fs afero.Fs, size int) *Inspector {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *File](size)
	if err != nil {
		// Only returned for a non-positive size
		panic(err)
	}
	return &Inspector{fs: fs, cache: cache}
}

// Inspect returns the metadata of the game file at path
func (i *Inspector) Inspect(path string) (*File, error) {
	info, err := i.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("file not found", path, errors.FileNotFound, err)
		}
		return nil, errors.NewFileError("cannot read file", path, errors.FileAccessDenied, err)
	}
	if info.IsDir() {
		return nil, errors.NewFileError("not a game file", path, errors.InvalidPath, nil)
	}

	if f, ok := i.cache.Get(path); ok && f.Size == info.Size() && f.ModTime.Equal(info.ModTime()) {
		return f, nil
	}

	r, err := i.fs.Open(path)
	if err != nil {
		return nil, errors.NewFileError("cannot open file", path, errors.FileAccessDenied, err)
	}
	defer r.Close()

	f := &File{Path: path, Size: info.Size(), ModTime: info.ModTime()}
	if err := sniff(r, f); err != nil {
		log.LogWithFields(log.F("path", path)).Debugf("not a game file: %v", err)
		return nil, err
	}

	i.cache.Add(path, f)
	return f, nil
}

// Forget drops the cached metadata for path
func (i *Inspector) Forget(path string) {
	i.cache.Remove(path)
}

func sniff(r io.ReaderAt, f *File) error {
	head := make([]byte, 0x40)
	n, err := r.ReadAt(head, 0)
	if err != nil && err != io.EOF {
		return errors.NewFileError("cannot read header", f.Path, errors.FileAccessDenied, err)
	}
	head = head[:n]

	switch {
	case len(head) >= 4 && binary.LittleEndian.Uint32(head) == gczMagic:
		f.Blob = types.BlobGCZ
		return readGCZ(r, f)
	case len(head) >= 4 && string(head[:4]) == "CISO":
		f.Blob = types.BlobCISO
		return readDiscAt(r, cisoHeaderLen, f)
	case len(head) >= 9 && string(head[:4]) == "WBFS":
		f.Blob = types.BlobWBFS
		return readDiscAt(r, int64(1)<<head[8], f)
	case len(head) >= 12 && binary.BigEndian.Uint32(head) == tgcMagic:
		f.Blob = types.BlobTGC
		return readDiscAt(r, int64(binary.BigEndian.Uint32(head[8:])), f)
	case len(head) >= 8 && binary.BigEndian.Uint32(head) == wadHeader && isWADType(head[4:8]):
		f.Blob = types.BlobPlain
		return readWAD(r, f)
	case isELF(head):
		f.Platform = types.PlatformELFOrDOL
		f.Blob = types.BlobPlain
		return nil
	case strings.EqualFold(filepath.Ext(f.Path), ".dol"):
		f.Platform = types.PlatformELFOrDOL
		f.Blob = types.BlobPlain
		return nil
	}

	f.Blob = types.BlobPlain
	return readDiscAt(r, 0, f)
}

// isELF reports an ELF header of any kind: executables, objects and
// libraries are detected as children of application/x-elf
func isELF(head []byte) bool {
	for m := mimetype.Detect(head); m != nil; m = m.Parent() {
		if m.Is("application/x-elf") {
			return true
		}
	}
	return false
}

func isWADType(t []byte) bool {
	s := string(t)
	return s == "Is\x00\x00" || s == "ib\x00\x00"
}

func readDiscAt(r io.ReaderAt, off int64, f *File) error {
	hdr := make([]byte, discHeaderLen)
	if _, err := r.ReadAt(hdr, off); err != nil {
		return errors.NewFileError("unsupported game file", f.Path, errors.UnsupportedFormat, err)
	}
	return parseDiscHeader(hdr, f)
}

func parseDiscHeader(hdr []byte, f *File) error {
	switch {
	case binary.BigEndian.Uint32(hdr[0x18:]) == wiiMagic:
		f.Platform = types.PlatformWiiDisc
	case binary.BigEndian.Uint32(hdr[0x1C:]) == gcMagic:
		f.Platform = types.PlatformGameCubeDisc
	default:
		return errors.NewFileError("unsupported game file", f.Path, errors.UnsupportedFormat, nil)
	}

	f.GameID = cString(hdr[0:6])
	if len(f.GameID) >= 6 {
		f.MakerID = f.GameID[4:6]
	}
	f.DiscNumber = int(hdr[6])
	f.Revision = int(hdr[7])
	f.InternalName = cString(hdr[0x20:discHeaderLen])
	if f.Platform == types.PlatformWiiDisc && len(f.GameID) >= 4 {
		f.TitleID = uint64(wiiTitleHi)<<32 | uint64(binary.BigEndian.Uint32([]byte(f.GameID[:4])))
	}
	return nil
}

// readGCZ decodes the first block of a GCZ image to reach the disc header
func readGCZ(r io.ReaderAt, f *File) error {
	hdr := make([]byte, gczHeaderLen)
	if _, err := r.ReadAt(hdr, 0); err != nil {
		return errors.NewFileError("truncated GCZ header", f.Path, errors.UnsupportedFormat, err)
	}
	compressedSize := binary.LittleEndian.Uint64(hdr[8:])
	numBlocks := binary.LittleEndian.Uint32(hdr[28:])
	if numBlocks == 0 {
		return errors.NewFileError("empty GCZ image", f.Path, errors.UnsupportedFormat, nil)
	}

	ptrs := make([]byte, 16)
	if numBlocks == 1 {
		ptrs = ptrs[:8]
	}
	if _, err := r.ReadAt(ptrs, gczHeaderLen); err != nil {
		return errors.NewFileError("truncated GCZ block table", f.Path, errors.UnsupportedFormat, err)
	}
	const rawFlag = uint64(1) << 63
	first := binary.LittleEndian.Uint64(ptrs)
	raw := first&rawFlag != 0
	start := first &^ rawFlag
	end := compressedSize
	if numBlocks > 1 {
		end = binary.LittleEndian.Uint64(ptrs[8:]) &^ rawFlag
	}
	if end <= start {
		return errors.NewFileError("corrupt GCZ block table", f.Path, errors.UnsupportedFormat, nil)
	}

	if end-start > maxGCZBlock || start > maxGCZOffset {
		return errors.NewFileError("corrupt GCZ block table", f.Path, errors.UnsupportedFormat, nil)
	}

	dataOff := int64(gczHeaderLen) + 12*int64(numBlocks)
	var disc io.Reader = io.NewSectionReader(r, dataOff+int64(start), int64(end-start))
	if !raw {
		zr, err := zlib.NewReader(disc)
		if err != nil {
			return errors.NewFileError("corrupt GCZ block", f.Path, errors.UnsupportedFormat, err)
		}
		defer zr.Close()
		disc = zr
	}

	discHdr := make([]byte, discHeaderLen)
	if _, err := io.ReadFull(io.LimitReader(disc, discHeaderLen), discHdr); err != nil {
		return errors.NewFileError("corrupt GCZ block", f.Path, errors.UnsupportedFormat, err)
	}
	return parseDiscHeader(discHdr, f)
}

// readWAD reads the title ID out of the package's TMD
func readWAD(r io.ReaderAt, f *File) error {
	hdr := make([]byte, wadHeader)
	if _, err := r.ReadAt(hdr, 0); err != nil {
		return errors.NewFileError("truncated package header", f.Path, errors.UnsupportedFormat, err)
	}
	align := func(n uint32) int64 { return int64((n + 0x3F) &^ 0x3F) }
	headerSize := binary.BigEndian.Uint32(hdr[0x00:])
	certSize := binary.BigEndian.Uint32(hdr[0x08:])
	ticketSize := binary.BigEndian.Uint32(hdr[0x10:])
	tmdOffset := align(headerSize) + align(certSize) + align(ticketSize)

	tmd := make([]byte, 0x1DE)
	if _, err := r.ReadAt(tmd, tmdOffset); err != nil {
		return errors.NewFileError("truncated package TMD", f.Path, errors.UnsupportedFormat, err)
	}

	f.Platform = types.PlatformWiiWAD
	f.TitleID = binary.BigEndian.Uint64(tmd[0x18C:])
	f.Revision = int(binary.BigEndian.Uint16(tmd[0x1DC:]))

	lo := uint32(f.TitleID)
	id := []byte{byte(lo >> 24), byte(lo >> 16), byte(lo >> 8), byte(lo)}
	if printable(id) {
		f.GameID = string(id)
		group := binary.BigEndian.Uint16(tmd[0x198:])
		if maker := []byte{byte(group >> 8), byte(group)}; printable(maker) {
			f.MakerID = string(maker)
			f.GameID += f.MakerID
		}
	}
	return nil
}

func printable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimSpace(string(b))
}
