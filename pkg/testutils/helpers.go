package testutils

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const (
	discHeaderSize = 0x440
	wiiMagic       = 0x5D1C9EA3
	gcMagic        = 0xC2339F3D
	gczMagic       = 0xB10BC001
)

// GameCubeDisc returns a minimal GameCube disc image with the given six
// character game ID and internal name.
func GameCubeDisc(id, name string) []byte {
	return disc(id, name, 0x1C, gcMagic)
}

// WiiDisc returns a minimal Wii disc image
func WiiDisc(id, name string) []byte {
	return disc(id, name, 0x18, wiiMagic)
}

func disc(id, name string, magicAt int, magic uint32) []byte {
	b := make([]byte, discHeaderSize)
	copy(b[0:6], id)
	b[6] = 0 // disc number
	b[7] = 1 // revision
	binary.BigEndian.PutUint32(b[magicAt:], magic)
	copy(b[0x20:0x60], name)
	return b
}

// GCZ wraps a disc image in a GCZ container, compressing each block with zlib
func GCZ(t *testing.T, discImage []byte, wii bool, blockSize int) []byte {
	t.Helper()
	numBlocks := (len(discImage) + blockSize - 1) / blockSize

	var data bytes.Buffer
	pointers := make([]uint64, numBlocks)
	hashes := make([]uint32, numBlocks)
	for i := 0; i < numBlocks; i++ {
		end := (i + 1) * blockSize
		if end > len(discImage) {
			end = len(discImage)
		}
		pointers[i] = uint64(data.Len())
		var block bytes.Buffer
		zw := zlib.NewWriter(&block)
		_, err := zw.Write(discImage[i*blockSize : end])
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		data.Write(block.Bytes())
	}

	var out bytes.Buffer
	subType := uint32(0)
	if wii {
		subType = 1
	}
	write := func(v interface{}) {
		require.NoError(t, binary.Write(&out, binary.LittleEndian, v))
	}
	write(uint32(gczMagic))
	write(subType)
	write(uint64(data.Len()))
	write(uint64(len(discImage)))
	write(uint32(blockSize))
	write(uint32(numBlocks))
	write(pointers)
	write(hashes)
	out.Write(data.Bytes())
	return out.Bytes()
}

// WAD returns a minimal installable package with the given title ID.
// Only the header and TMD fields the inspector reads are populated.
func WAD(titleID uint64, version uint16) []byte {
	const (
		hdrSize    = 0x20
		certSize   = 0x40
		ticketSize = 0x2A4
		tmdSize    = 0x208
	)
	align := func(n int) int { return (n + 0x3F) &^ 0x3F }

	tmdOffset := align(hdrSize) + align(certSize) + align(ticketSize)
	b := make([]byte, tmdOffset+align(tmdSize))

	binary.BigEndian.PutUint32(b[0x00:], hdrSize)
	copy(b[0x04:], "Is\x00\x00")
	binary.BigEndian.PutUint32(b[0x08:], certSize)
	binary.BigEndian.PutUint32(b[0x10:], ticketSize)
	binary.BigEndian.PutUint32(b[0x14:], tmdSize)

	tmd := b[tmdOffset:]
	binary.BigEndian.PutUint64(tmd[0x18C:], titleID)
	binary.BigEndian.PutUint16(tmd[0x1DC:], version)
	return b
}

// WriteFile writes data to path on fs, creating parent directories
func WriteFile(t *testing.T, fs afero.Fs, path string, data []byte) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, data, 0644))
}

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string][]byte) {
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		err := os.WriteFile(path, content, 0644)
		require.NoError(t, err)
	}
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}
