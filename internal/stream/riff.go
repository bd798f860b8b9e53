package stream

import "fmt"

// LeafVisitor is invoked once per leaf (non-container) chunk encountered
// while walking a RIFF tree. body is scoped exactly to the chunk's declared
// length. A returned error aborts only this chunk; the walker always
// resumes at the parent's declared end-offset regardless, so truncation or
// a signature mismatch inside one record never kills the whole parse.
type LeafVisitor func(fourCC string, body *Reader) error

// ErrBadSignature is returned when a cmpr list's fixed marker/version
// preamble doesn't match what a compressed list always carries.
var ErrBadSignature = fmt.Errorf("stream: bad cmpr list signature")

// WalkRIFF descends a RIFF/RIFX/LIST tree rooted at r's current position,
// consuming records until r is exhausted. lengths, when non-nil, is a
// chunk-length rewrite table: each record's stored 32-bit length field is
// treated as an index into lengths rather than a literal byte count (the
// table threaded down from an enclosing cmpr list). This is a port of
// CDRParser::parseRecords/parseRecord.
func WalkRIFF(r *Reader, lengths []uint32, visit LeafVisitor) error {
	return WalkRIFFWithHooks(r, lengths, visit, nil, nil)
}

// ListHook is invoked when a LIST container chunk is entered or exited,
// named by its 4-byte list-type. The CDR record decoder (internal/cdr) uses
// this to notice object ("obj ") and group ("grup") container boundaries
// that the document itself carries no explicit begin/end record for: the
// object/group currently being assembled is flushed or paired with a
// StartGroup/EndGroup paint event exactly when its enclosing LIST closes.
type ListHook func(listType string)

// WalkRIFFWithHooks is WalkRIFF with optional onEnterList/onExitList
// callbacks fired around every LIST container's children, in addition to
// the per-leaf-chunk visit callback. Either hook may be nil.
func WalkRIFFWithHooks(r *Reader, lengths []uint32, visit LeafVisitor, onEnterList, onExitList ListHook) error {
	for !r.AtEnd() {
		if err := walkOneRecord(r, lengths, visit, onEnterList, onExitList); err != nil {
			return err
		}
	}
	return nil
}

func walkOneRecord(r *Reader, lengths []uint32, visit LeafVisitor, onEnterList, onExitList ListHook) error {
	// The producer pads chunks with leading zero bytes rather than aligning
	// to word boundaries; skip them before reading the next header.
	for {
		b, err := r.ReadU8()
		if err != nil {
			return err
		}
		if b != 0 {
			r.Seek(-1, SeekCur)
			break
		}
		if r.AtEnd() {
			return nil
		}
	}

	fourCC, err := r.ReadFourCC()
	if err != nil {
		return err
	}
	rawLength, err := r.ReadU32()
	if err != nil {
		return err
	}
	length := rawLength
	if lengths != nil {
		if int(length) >= len(lengths) {
			return fmt.Errorf("stream: chunk length index %d out of range (table has %d entries)", length, len(lengths))
		}
		length = lengths[length]
	}
	position := r.Tell()

	if fourCC == "RIFF" || fourCC == "RIFX" || fourCC == "LIST" {
		if err := walkContainer(r, length, position, lengths, visit, onEnterList, onExitList); err != nil {
			return err
		}
	} else {
		body, err := r.ReadBytes(int(length))
		if err != nil {
			return err
		}
		_ = visit(fourCC, NewWithOrder(body, r.Order()))
	}

	r.Seek(position+int64(length), SeekSet)
	return nil
}

func walkContainer(r *Reader, length uint32, position int64, lengths []uint32, visit LeafVisitor, onEnterList, onExitList ListHook) error {
	listType, err := r.ReadFourCC()
	if err != nil {
		return err
	}
	if onEnterList != nil {
		onEnterList(listType)
	}
	if onExitList != nil {
		defer onExitList(listType)
	}

	compressed := listType == "cmpr"
	bodySize := length - 4
	if compressed {
		cmprSize, err := r.ReadU32()
		if err != nil {
			return err
		}
		if _, err := r.ReadU32(); err != nil { // uncompressed size, informational only
			return err
		}
		if _, err := r.ReadU32(); err != nil { // block count, informational only
			return err
		}
		if _, err := r.ReadBytes(4); err != nil { // reserved
			return err
		}
		marker, err := r.ReadFourCC()
		if err != nil {
			return err
		}
		if marker != "CPng" {
			return ErrBadSignature
		}
		major, err := r.ReadU16()
		if err != nil {
			return err
		}
		minor, err := r.ReadU16()
		if err != nil {
			return err
		}
		if major != 1 || minor != 4 {
			return ErrBadSignature
		}
		bodySize = cmprSize
	}

	compressedBody, err := r.ReadBytes(int(bodySize))
	if err != nil {
		return err
	}

	if !compressed {
		return WalkRIFFWithHooks(NewWithOrder(compressedBody, r.Order()), lengths, visit, onEnterList, onExitList)
	}

	inflated, err := inflateZlib(compressedBody)
	if err != nil {
		return nil // decompression failure: skip this chunk, not a hard parse error
	}
	dataReader := NewWithOrder(inflated, r.Order())

	blocksLength := int64(length) + position - r.Tell()
	if blocksLength < 0 {
		return nil
	}
	blocksBody, err := r.ReadBytes(int(blocksLength))
	if err != nil {
		return err
	}
	inflatedBlocks, err := inflateZlib(blocksBody)
	if err != nil {
		return nil
	}
	blocksReader := NewWithOrder(inflatedBlocks, r.Order())
	var rewritten []uint32
	for !blocksReader.AtEnd() {
		v, err := blocksReader.ReadU32()
		if err != nil {
			break
		}
		rewritten = append(rewritten, v)
	}

	return WalkRIFFWithHooks(dataReader, rewritten, visit, onEnterList, onExitList)
}
