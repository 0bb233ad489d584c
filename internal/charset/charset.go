package charset

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"

	kerrors "github.com/PolarWolf314/huna/internal/errors"
)

const (
	// Binary is the classification for content that is not text.
	Binary = "binary"

	// UTF8 is the canonical name of UTF-8.
	UTF8 = "utf-8"

	// SampleSize bounds how much of a buffer the detector inspects.
	SampleSize = 64 * 1024

	// MinConfidence is the chardet confidence (0-100) below which the
	// binary heuristic decides.
	MinConfidence = 30

	// maxControlRatio is the share of control bytes above which a sample is binary.
	maxControlRatio = 0.10
)

// Every supported encoding, keyed by canonical name. Byte-order marks are
// kept as U+FEFF so decoding and re-encoding reproduce the original bytes.
var supported = map[string]encoding.Encoding{
	UTF8:           unicode.UTF8,
	"utf-16le":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16be":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"utf-32le":     utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
	"utf-32be":     utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-2":   charmap.ISO8859_2,
	"iso-8859-5":   charmap.ISO8859_5,
	"iso-8859-6":   charmap.ISO8859_6,
	"iso-8859-7":   charmap.ISO8859_7,
	"iso-8859-8":   charmap.ISO8859_8,
	"iso-8859-9":   charmap.ISO8859_9,
	"windows-1250": charmap.Windows1250,
	"windows-1251": charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"windows-1253": charmap.Windows1253,
	"windows-1254": charmap.Windows1254,
	"windows-1255": charmap.Windows1255,
	"windows-1256": charmap.Windows1256,
	"koi8-r":       charmap.KOI8R,
	"shift_jis":    japanese.ShiftJIS,
	"euc-jp":       japanese.EUCJP,
	"iso-2022-jp":  japanese.ISO2022JP,
	"euc-kr":       korean.EUCKR,
	"gb18030":      simplifiedchinese.GB18030,
	"big5":         traditionalchinese.Big5,
}

// Alternative spellings, including the labels chardet reports.
var aliases = map[string]string{
	"utf8":         UTF8,
	"ascii":        UTF8,
	"us-ascii":     UTF8,
	"utf16le":      "utf-16le",
	"utf16be":      "utf-16be",
	"ucs-2":        "utf-16le",
	"utf32le":      "utf-32le",
	"utf32be":      "utf-32be",
	"latin1":       "iso-8859-1",
	"latin-1":      "iso-8859-1",
	"iso8859-1":    "iso-8859-1",
	"iso-8859-8-i": "iso-8859-8",
	"cp1250":       "windows-1250",
	"cp1251":       "windows-1251",
	"cp1252":       "windows-1252",
	"cp1253":       "windows-1253",
	"cp1254":       "windows-1254",
	"cp1255":       "windows-1255",
	"cp1256":       "windows-1256",
	"koi8r":        "koi8-r",
	"shift-jis":    "shift_jis",
	"sjis":         "shift_jis",
	"eucjp":        "euc-jp",
	"euckr":        "euc-kr",
	"gb-18030":     "gb18030",
	"gbk":          "gb18030",
	"gb2312":       "gb18030",
	"big-5":        "big5",
}

// Normalize maps an encoding label to its canonical name. Unknown labels,
// including the empty string, normalize to Binary.
func Normalize(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == Binary {
		return Binary
	}
	if _, ok := supported[key]; ok {
		return key
	}
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return Binary
}

// IsSupported reports whether name is Binary or a canonical text encoding.
func IsSupported(name string) bool {
	if name == Binary {
		return true
	}
	_, ok := supported[name]
	return ok
}

// Supported returns the canonical names of all text encodings, sorted.
func Supported() []string {
	names := make([]string, 0, len(supported))
	for name := range supported {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect classifies data as Binary or a canonical text encoding.
func Detect(data []byte) string {
	return detect(data, false)
}

// DetectPrefix is Detect for the leading bytes of a longer input, such as
// the header read of a directory listing. A multibyte sequence cut off at
// the end of prefix does not count against UTF-8.
func DetectPrefix(prefix []byte) string {
	return detect(prefix, true)
}

func detect(data []byte, truncated bool) string {
	if len(data) == 0 {
		return UTF8
	}

	sample := data
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
		truncated = true
	}

	if validUTF8Prefix(sample, truncated) && !LooksBinary(sample) {
		return UTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || result == nil {
		return Binary
	}

	name := Normalize(result.Charset)
	if result.Confidence < MinConfidence {
		if LooksBinary(sample) {
			return Binary
		}
		return name
	}

	if isWide(name) {
		return name
	}
	if LooksBinary(sample) {
		return Binary
	}
	return name
}

// LooksBinary reports whether sample contains a NUL byte or too many
// control characters to be text in a single-byte or multibyte encoding.
func LooksBinary(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}

	controls := 0
	for _, b := range sample {
		switch {
		case b == 0x00:
			return true
		case b == '\t', b == '\n', b == '\r', b == '\f', b == '\v', b == '\b', b == 0x1b:
		case b < 0x20, b == 0x7f:
			controls++
		}
	}
	return float64(controls)/float64(len(sample)) > maxControlRatio
}

// Decode converts data in the named encoding to a UTF-8 string.
func Decode(data []byte, name string) (string, error) {
	if name == UTF8 {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: content is not valid utf-8", kerrors.ErrValidation)
		}
		return string(data), nil
	}

	enc, err := lookup(name)
	if err != nil {
		return "", err
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", name, err)
	}
	return string(out), nil
}

// Encode converts a UTF-8 string to the named encoding.
func Encode(text string, name string) ([]byte, error) {
	if name == UTF8 {
		return []byte(text), nil
	}

	enc, err := lookup(name)
	if err != nil {
		return nil, err
	}

	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", name, err)
	}
	return out, nil
}

func lookup(name string) (encoding.Encoding, error) {
	enc, ok := supported[name]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported text encoding %q", kerrors.ErrValidation, name)
	}
	return enc, nil
}

func isWide(name string) bool {
	return strings.HasPrefix(name, "utf-16") || strings.HasPrefix(name, "utf-32")
}

// validUTF8Prefix reports whether sample is valid UTF-8, tolerating a rune
// cut off by the sample boundary.
func validUTF8Prefix(sample []byte, truncated bool) bool {
	if utf8.Valid(sample) {
		return true
	}
	if !truncated {
		return false
	}
	for cut := 1; cut < utf8.UTFMax && cut < len(sample); cut++ {
		if utf8.Valid(sample[:len(sample)-cut]) {
			return true
		}
	}
	return false
}
