// Package rom loads the Space Invaders program ROM set, either as the
// four original 2K chips or as a single pre-joined 8K image.
package rom

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	SegSize   = 0x0800 // one ROM chip
	ImageSize = 4 * SegSize
)

// segdefs lists the chips of the Midway set in address order, with the
// checksums of the known good dumps.
var segdefs = [4]struct {
	name string
	addr uint16
	crc  uint32
}{
	{"invaders.h", 0x0000, 0x734f5ad8},
	{"invaders.g", 0x0800, 0x6bfaca4a},
	{"invaders.f", 0x1000, 0x0ccead96},
	{"invaders.e", 0x1800, 0x14e538b0},
}

// SizeError is returned when a ROM file has an unexpected length.
type SizeError struct {
	Name string
	Size int
	Want int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s: bad size %d bytes, want %d", e.Name, e.Size, e.Want)
}

// Segment is one loaded ROM chip.
type Segment struct {
	Name string
	Addr uint16 // load address
	Data []byte
	Sum  uint32 // crc32 of Data
}

// Known reports whether the segment matches a known good dump.
func (s *Segment) Known() bool {
	for _, def := range segdefs {
		if s.Name == def.name {
			return s.Sum == def.crc
		}
	}
	return false
}

// Set is a complete program ROM set.
type Set struct {
	Path     string
	Segments [4]Segment
}

// Load reads a ROM set from path. A directory is expected to contain
// the four chip files; a regular file is taken as an 8K joined image
// and split back into segments.
func Load(path string) (*Set, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return loadDir(path)
	}
	return loadImage(path)
}

func loadDir(dir string) (*Set, error) {
	set := &Set{Path: dir}

	// chips are independent files, read them concurrently
	var g errgroup.Group
	for i, def := range segdefs {
		g.Go(func() error {
			buf, err := os.ReadFile(filepath.Join(dir, def.name))
			if err != nil {
				return err
			}
			if len(buf) != SegSize {
				return &SizeError{Name: def.name, Size: len(buf), Want: SegSize}
			}
			set.Segments[i] = Segment{
				Name: def.name,
				Addr: def.addr,
				Data: buf,
				Sum:  crc32.ChecksumIEEE(buf),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}

func loadImage(path string) (*Set, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(buf) != ImageSize {
		return nil, &SizeError{Name: filepath.Base(path), Size: len(buf), Want: ImageSize}
	}

	set := &Set{Path: path}
	for i, def := range segdefs {
		data := buf[int(def.addr) : int(def.addr)+SegSize]
		set.Segments[i] = Segment{
			Name: def.name,
			Addr: def.addr,
			Data: data,
			Sum:  crc32.ChecksumIEEE(data),
		}
	}
	return set, nil
}

// Image returns the contiguous 8K program image, ready to be mapped at
// address 0.
func (s *Set) Image() []byte {
	img := make([]byte, ImageSize)
	for _, seg := range s.Segments {
		copy(img[seg.Addr:], seg.Data)
	}
	return img
}

// Known reports whether every segment matches a known good dump.
func (s *Set) Known() bool {
	for i := range s.Segments {
		if !s.Segments[i].Known() {
			return false
		}
	}
	return true
}

func (s *Set) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "rom set: %s\n", s.Path)
	for _, seg := range s.Segments {
		status := "unknown dump"
		if seg.Known() {
			status = "good"
		}
		fmt.Fprintf(&sb, "  %-12s @ $%04X  crc32 %08x  %s\n", seg.Name, seg.Addr, seg.Sum, status)
	}
	return sb.String()
}
