package stream

import (
	"encoding/binary"
	"errors"
	"unicode/utf16"
)

// ErrNotOLE is returned when data doesn't begin with the OLE compound file
// signature.
var ErrNotOLE = errors.New("stream: not an OLE compound file")

// ErrOLEStreamNotFound is returned when OpenOLEStream can't locate the
// requested stream by name.
var ErrOLEStreamNotFound = errors.New("stream: OLE stream not found")

const (
	oleSignature  = 0xe11ab1a1e011cfd0
	oleEndOfChain = 0xfffffffe
	oleFreeSect   = 0xffffffff
	oleFatSect    = 0xfffffffd
	oleDifSect    = 0xfffffffc
)

// oleFile is a minimal Compound File Binary Format (CFBF, "OLE2") reader:
// just enough sector-chain and directory-tree walking to pull a single
// named top-level stream (PerfectOffice_MAIN) out of a CorelDRAW document
// wrapper. It follows the public CFBF binary layout directly, the same way
// this module's ICC reader follows the public ICC tag-table layout.
type oleFile struct {
	data         []byte
	sectorSize   int
	miniSectorSize int
	fat          []uint32
	miniFat      []uint32
	dirEntries   []oleDirEntry
	miniStream   []byte
}

type oleDirEntry struct {
	name        string
	objType     byte
	start       uint32
	size        uint64
	left, right int32
	child       int32
}

func leU32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func leU64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }
func leU16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

func openOLE(data []byte) (*oleFile, error) {
	if len(data) < 512 || leU64(data[0:8]) != oleSignature {
		return nil, ErrNotOLE
	}

	sectorShift := leU16(data[30:32])
	miniSectorShift := leU16(data[32:34])
	numFatSectors := leU32(data[44:48])
	firstDirSector := leU32(data[48:52])
	firstMiniFatSector := leU32(data[60:64])
	numMiniFatSectors := leU32(data[64:68])
	firstDifatSector := leU32(data[68:72])
	numDifatSectors := leU32(data[72:76])

	f := &oleFile{
		data:           data,
		sectorSize:     1 << sectorShift,
		miniSectorSize: 1 << miniSectorShift,
	}

	// Build the DIFAT: the 109 entries embedded in the header, plus any
	// chained DIFAT sectors.
	var difat []uint32
	for i := 0; i < 109; i++ {
		off := 76 + i*4
		difat = append(difat, leU32(data[off:off+4]))
	}
	sector := firstDifatSector
	for i := uint32(0); i < numDifatSectors && sector != oleEndOfChain && sector != oleFreeSect; i++ {
		body, err := f.sectorBytes(sector)
		if err != nil {
			break
		}
		entries := len(body)/4 - 1
		for j := 0; j < entries; j++ {
			difat = append(difat, leU32(body[j*4:j*4+4]))
		}
		sector = leU32(body[entries*4 : entries*4+4])
	}

	f.fat = make([]uint32, 0, int(numFatSectors)*f.sectorSize/4)
	for i := uint32(0); i < numFatSectors && i < uint32(len(difat)); i++ {
		if difat[i] == oleFreeSect {
			continue
		}
		body, err := f.sectorBytes(difat[i])
		if err != nil {
			break
		}
		for j := 0; j+4 <= len(body); j += 4 {
			f.fat = append(f.fat, leU32(body[j:j+4]))
		}
	}

	dirBytes, err := f.readChain(firstDirSector, 0)
	if err != nil {
		return nil, err
	}
	for off := 0; off+128 <= len(dirBytes); off += 128 {
		f.dirEntries = append(f.dirEntries, parseDirEntry(dirBytes[off:off+128]))
	}

	if firstMiniFatSector != oleEndOfChain && numMiniFatSectors > 0 {
		miniFatBytes, err := f.readChain(firstMiniFatSector, 0)
		if err == nil {
			for j := 0; j+4 <= len(miniFatBytes); j += 4 {
				f.miniFat = append(f.miniFat, leU32(miniFatBytes[j:j+4]))
			}
		}
	}
	if len(f.dirEntries) > 0 {
		root := f.dirEntries[0]
		f.miniStream, _ = f.readChain(root.start, root.size)
	}

	return f, nil
}

func parseDirEntry(b []byte) oleDirEntry {
	nameLen := int(leU16(b[64:66]))
	var name string
	if nameLen >= 2 {
		charCount := (nameLen - 2) / 2 // nameLen includes a trailing NUL
		u16s := make([]uint16, 0, charCount)
		for i := 0; i < charCount && i*2+2 <= 64; i++ {
			u16s = append(u16s, leU16(b[i*2:i*2+2]))
		}
		name = string(utf16.Decode(u16s))
	}
	return oleDirEntry{
		name:    name,
		objType: b[66],
		left:    int32(leU32(b[68:72])),
		right:   int32(leU32(b[72:76])),
		child:   int32(leU32(b[76:80])),
		start:   leU32(b[116:120]),
		size:    leU64(b[120:128]),
	}
}

func (f *oleFile) sectorBytes(sector uint32) ([]byte, error) {
	off := 512 + int(sector)*f.sectorSize
	if off < 0 || off+f.sectorSize > len(f.data) {
		return nil, ErrTruncated
	}
	return f.data[off : off+f.sectorSize], nil
}

// readChain follows a FAT sector chain starting at sector, returning the
// concatenated bytes. size, when non-zero, truncates the result (directory
// streams don't carry their own length so 0 means "read the whole chain").
func (f *oleFile) readChain(sector uint32, size uint64) ([]byte, error) {
	var out []byte
	seen := make(map[uint32]bool)
	for sector != oleEndOfChain && sector != oleFreeSect {
		if seen[sector] {
			break // cyclic FAT chain; stop rather than loop forever
		}
		seen[sector] = true
		body, err := f.sectorBytes(sector)
		if err != nil {
			break
		}
		out = append(out, body...)
		if int(sector) >= len(f.fat) {
			break
		}
		sector = f.fat[sector]
	}
	if size > 0 && uint64(len(out)) > size {
		out = out[:size]
	}
	return out, nil
}

// readMiniChain follows a mini-FAT sector chain within the root's mini
// stream, for directory entries smaller than the mini-stream cutoff.
func (f *oleFile) readMiniChain(sector uint32, size uint64) []byte {
	var out []byte
	seen := make(map[uint32]bool)
	for sector != oleEndOfChain && sector != oleFreeSect {
		if seen[sector] {
			break
		}
		seen[sector] = true
		start := int(sector) * f.miniSectorSize
		end := start + f.miniSectorSize
		if start < 0 || end > len(f.miniStream) {
			break
		}
		out = append(out, f.miniStream[start:end]...)
		if int(sector) >= len(f.miniFat) {
			break
		}
		sector = f.miniFat[sector]
	}
	if uint64(len(out)) > size {
		out = out[:size]
	}
	return out
}

const oleMiniStreamCutoff = 4096

// Stream returns the full contents of the top-level stream entry matching
// name, or ErrOLEStreamNotFound.
func (f *oleFile) Stream(name string) ([]byte, error) {
	for _, e := range f.dirEntries {
		if e.objType != 2 || e.name != name { // 2 = stream object
			continue
		}
		if e.size < oleMiniStreamCutoff {
			return f.readMiniChain(e.start, e.size), nil
		}
		return f.readChain(e.start, e.size)
	}
	return nil, ErrOLEStreamNotFound
}

// OpenOLEStream unwraps an OLE-compound-wrapped document and returns the
// named top-level stream's bytes, so an OLE-compound wrapper is
// transparently unwrapped via its PerfectOffice_MAIN sub-stream. Returns
// ErrNotOLE if data isn't a compound file at all, in which case the caller
// should fall back to treating data as the raw document.
func OpenOLEStream(data []byte, name string) ([]byte, error) {
	f, err := openOLE(data)
	if err != nil {
		return nil, err
	}
	return f.Stream(name)
}
