package catalog

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// utf8BOM is the byte order mark spreadsheet tools prepend to UTF-8 exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText turns raw source bytes into text. A leading UTF-8 BOM is
// dropped. Input that is not valid UTF-8 is assumed to be Windows-1252, the
// encoding legacy spreadsheet exports use for accented Latin text.
func decodeText(data []byte) (text string, transcoded bool) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), false
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("�"))), false
	}
	return string(decoded), true
}
