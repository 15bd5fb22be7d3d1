// Package game identifies emulator game files and reads their metadata.
package game

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"gamelist/pkg/types"

	"github.com/dustin/go-humanize"
)

// File is the metadata of one game file on disk
type File struct {
	Path    string
	Size    int64
	ModTime time.Time

	Platform types.Platform
	Blob     types.BlobType

	GameID       string // six characters, empty for homebrew
	MakerID      string
	TitleID      uint64 // Wii titles only
	Revision     int
	DiscNumber   int
	InternalName string
}

// FileName returns the base name of the file
func (f *File) FileName() string {
	return filepath.Base(f.Path)
}

// Title is the name shown in the list: the internal name, or the file name
// without its extension when the header carries none.
func (f *File) Title() string {
	if f.InternalName != "" {
		return f.InternalName
	}
	name := f.FileName()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

var regions = map[byte]string{
	'E': "USA",
	'J': "Japan",
	'P': "Europe",
	'D': "Germany",
	'F': "France",
	'I': "Italy",
	'S': "Spain",
	'H': "Netherlands",
	'U': "Australia",
	'K': "Korea",
	'W': "Taiwan",
	'R': "Russia",
	'X': "Europe",
	'Y': "Europe",
}

// Country derives the release region from the fourth character of the game ID
func (f *File) Country() string {
	if len(f.GameID) < 4 {
		return "Unknown"
	}
	if c, ok := regions[f.GameID[3]]; ok {
		return c
	}
	return "Unknown"
}

// WikiURL returns the wiki page for the game, or nil when it has no game ID
func (f *File) WikiURL(base string) *url.URL {
	if f.GameID == "" {
		return nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil
	}
	q := u.Query()
	q.Set("title", f.GameID)
	u.RawQuery = q.Encode()
	return u
}

// TitleDir returns the NAND path segment "<hi>/<lo>" for Wii titles
func (f *File) TitleDir() string {
	return fmt.Sprintf("%08x/%08x", uint32(f.TitleID>>32), uint32(f.TitleID))
}

// HumanSize formats the file size with binary units
func (f *File) HumanSize() string {
	if f.Size < 0 {
		return humanize.IBytes(0)
	}
	return humanize.IBytes(uint64(f.Size))
}
