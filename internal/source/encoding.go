package source

import "bytes"

var bom = []byte{0xEF, 0xBB, 0xBF}

// normalize strips a UTF-8 BOM and turns \r\n into \n. Lone \r stays.
func normalize(raw []byte) ([]byte, FileFlags) {
	var flags FileFlags
	content, hadBOM := bytes.CutPrefix(raw, bom)
	if hadBOM {
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

// Denormalize is the inverse of the normalization Load applies: flags say
// whether to bring back \r\n and the BOM. Autocorrect writes files through
// it so untouched lines keep their bytes.
func Denormalize(content []byte, flags FileFlags) []byte {
	if flags&FileNormalizedCRLF != 0 {
		content = bytes.ReplaceAll(content, []byte("\n"), []byte("\r\n"))
	}
	if flags&FileHadBOM != 0 {
		content = append(append([]byte(nil), bom...), content...)
	}
	return content
}
