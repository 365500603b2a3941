package datafile

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodingAuto asks the reader to sniff the file encoding.
const EncodingAuto = "auto"

// Number of bytes sampled from the head of the file for detection.
const sniffLen = 10000

// Candidate encodings in order of likelihood for business data
// exports. latin-1 accepts every byte value, so detection never gets
// past it for non-UTF-8 files; it doubles as the fallback.
var detectionOrder = []string{"utf-8", "latin-1", "windows-1252", "iso-8859-1", "cp1252", "utf-16"}

func encodingByName(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return unicode.UTF8, nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %q", name)
	}
}

// DetectEncoding sniffs the head of the file and returns the first
// candidate encoding that decodes it cleanly.
func DetectEncoding(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open file for encoding detection: %w", err)
	}
	defer file.Close()

	sample := make([]byte, sniffLen)
	n, err := file.Read(sample)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read sample: %w", err)
	}
	sample = sample[:n]

	for _, name := range detectionOrder {
		if decodesCleanly(name, sample) {
			return name, nil
		}
	}
	return "latin-1", nil
}

func decodesCleanly(name string, sample []byte) bool {
	// The UTF-8 decoder substitutes invalid sequences instead of
	// failing, so validate those bytes directly.
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return utf8.Valid(sample)
	}
	enc, err := encodingByName(name)
	if err != nil {
		return false
	}
	_, _, err = transform.Bytes(enc.NewDecoder(), sample)
	return err == nil
}
