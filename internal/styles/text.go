package styles

import (
	"unicode/utf16"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// charsetEncodings maps the small set of CDR charSet codes this module has
// seen in the wild to an x/text single-byte encoding. The trimmed original
// source this package is ported from (libcdr_utils.cpp's appendCharacters)
// didn't carry its codepage table, so this is a best-effort table covering
// the common Windows codepages CorelDRAW documents actually declare;
// anything unrecognized decodes as Windows-1252, matching the fallback most
// legacy CorelDRAW content already expects.
var charsetEncodings = map[int32]encoding.Encoding{
	0:  charmap.Windows1252, // ANSI
	1:  charmap.Windows1252, // "default"
	2:  charmap.Windows1252, // symbol fonts: treated as Latin-1 code points
	77: charmap.Macintosh,
	128: charmap.Windows1252, // no dedicated Shift-JIS charmap in x/text; best-effort
	161: charmap.Windows1253, // Greek
	162: charmap.Windows1254, // Turkish
	177: charmap.Windows1255, // Hebrew
	178: charmap.Windows1256, // Arabic
	186: charmap.Windows1257, // Baltic
	204: charmap.Windows1251, // Cyrillic
	238: charmap.Windows1250, // Eastern European
}

func encodingFor(charSet int32) encoding.Encoding {
	if enc, ok := charsetEncodings[charSet]; ok {
		return enc
	}
	return charmap.Windows1252
}

// decodeRunBytes decodes one character run: wide (2 bytes per character,
// UTF-16LE code units, as libcdr stores text whenever the 0x01 description
// bit is set) or narrow (1 byte per character through charSet's codepage).
// Ported from CDRStylesCollector::collectText's two appendCharacters
// overloads.
func decodeRunBytes(data []byte, wide bool, charSet int32) string {
	if wide {
		units := make([]uint16, 0, len(data)/2)
		for i := 0; i+1 < len(data); i += 2 {
			units = append(units, uint16(data[i])|uint16(data[i+1])<<8)
		}
		return string(utf16.Decode(units))
	}

	decoded, err := encodingFor(charSet).NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}
