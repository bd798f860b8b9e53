package stream

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
)

// ErrEntryNotFound is returned by ZipContainer.Open when no entry matches
// the requested name.
var ErrEntryNotFound = errors.New("stream: zip entry not found")

// ZipContainer opens the ZIP-64-without-extensions subset of entries a CDR
// "zipped" document can be wrapped in: end-of-central-directory scan,
// central-directory walk, local-file-header verification, STORE/DEFLATE
// payloads. archive/zip already implements exactly this subset, down to
// the same three signature constants, so it is wrapped rather than
// reimplemented.
type ZipContainer struct {
	r *zip.Reader
}

// OpenZip parses data as a ZIP container.
func OpenZip(data []byte) (*ZipContainer, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &ZipContainer{r: zr}, nil
}

// Names lists every entry's stored name.
func (z *ZipContainer) Names() []string {
	names := make([]string, len(z.r.File))
	for i, f := range z.r.File {
		names[i] = f.Name
	}
	return names
}

// Open reads and decompresses the named entry in full.
func (z *ZipContainer) Open(name string) ([]byte, error) {
	for _, f := range z.r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, ErrEntryNotFound
}
