package encoding

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
)

// ErrUnreadable is returned when no supported encoding yields clean text.
var ErrUnreadable = errors.New("unreadable file: no supported text encoding matched")

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Charset is a single-byte legacy encoding that may be tried after UTF-8.
type Charset struct {
	Name string
	enc  xencoding.Encoding
}

var (
	Windows874  = Charset{Name: "windows-874", enc: charmap.Windows874}
	Windows1252 = Charset{Name: "windows-1252", enc: charmap.Windows1252}
	Windows1251 = Charset{Name: "windows-1251", enc: charmap.Windows1251}
	ISO8859_2   = Charset{Name: "ISO-8859-2", enc: charmap.ISO8859_2}
	ISO8859_9   = Charset{Name: "ISO-8859-9", enc: charmap.ISO8859_9}
	KOI8R       = Charset{Name: "KOI8-R", enc: charmap.KOI8R}
)

// chardetCharsets maps chardet result names to the charsets we can decode.
var chardetCharsets = map[string]Charset{
	"ISO-8859-1":   Windows1252,
	"windows-1252": Windows1252,
	"ISO-8859-2":   ISO8859_2,
	"ISO-8859-9":   ISO8859_9,
	"windows-1251": Windows1251,
	"KOI8-R":       KOI8R,
}

// Result is decoded text plus the name of the encoding that produced it.
type Result struct {
	Text    string
	Charset string
}

// Decoder turns an uploaded payload into text.
//
// Attempt order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Plain UTF-8
//  3. The configured legacy charsets plus the chardet guess. Every candidate
//     that decodes cleanly is scored and the most plausible text wins; ties go
//     to the earlier legacy charset.
type Decoder struct {
	legacy []Charset
}

// NewDecoder returns a Decoder trying the given legacy charsets after UTF-8.
// With none given, Windows-874 (Thai) and then Windows-1252 are used.
func NewDecoder(legacy ...Charset) *Decoder {
	if len(legacy) == 0 {
		legacy = []Charset{Windows874, Windows1252}
	}

	return &Decoder{legacy: legacy}
}

// Decode uses the default Decoder.
func Decode(data []byte) (Result, error) {
	return NewDecoder().Decode(data)
}

func (d *Decoder) Decode(data []byte) (Result, error) {
	if bytes.HasPrefix(data, bomUTF8) {
		rest := data[len(bomUTF8):]
		if utf8.Valid(rest) && isText(string(rest)) {
			return Result{Text: string(rest), Charset: "UTF-8-BOM"}, nil
		}

		return Result{}, ErrUnreadable
	}

	if bytes.HasPrefix(data, bomUTF16LE) {
		return decodeUTF16(data, xunicode.LittleEndian, "UTF-16LE")
	}

	if bytes.HasPrefix(data, bomUTF16BE) {
		return decodeUTF16(data, xunicode.BigEndian, "UTF-16BE")
	}

	if utf8.Valid(data) {
		if text := string(data); isText(text) {
			return Result{Text: text, Charset: "UTF-8"}, nil
		}
	}

	candidates := slices.Clone(d.legacy)
	if cs, ok := detect(data); ok && !slices.ContainsFunc(candidates, func(c Charset) bool { return c.Name == cs.Name }) {
		candidates = append(candidates, cs)
	}

	var (
		best      Result
		bestScore = -1
	)

	for _, cs := range candidates {
		text, ok := tryCharset(data, cs)
		if !ok {
			continue
		}

		if score := oddities(text); bestScore < 0 || score < bestScore {
			best, bestScore = Result{Text: text, Charset: cs.Name}, score
		}
	}

	if bestScore < 0 {
		return Result{}, ErrUnreadable
	}

	return best, nil
}

func decodeUTF16(data []byte, order xunicode.Endianness, name string) (Result, error) {
	out, err := xunicode.UTF16(order, xunicode.UseBOM).NewDecoder().Bytes(data)
	if err != nil {
		return Result{}, ErrUnreadable
	}

	text := string(out)
	if !isText(text) {
		return Result{}, ErrUnreadable
	}

	return Result{Text: text, Charset: name}, nil
}

func tryCharset(data []byte, cs Charset) (string, bool) {
	out, err := cs.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}

	text := string(out)
	if !isText(text) {
		return "", false
	}

	return text, true
}

func detect(data []byte) (Charset, bool) {
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return Charset{}, false
	}

	cs, ok := chardetCharsets[result.Charset]

	return cs, ok
}

var scripts = []*unicode.RangeTable{
	unicode.Thai, unicode.Latin, unicode.Cyrillic, unicode.Greek, unicode.Arabic, unicode.Hebrew,
}

func scriptOf(r rune) *unicode.RangeTable {
	if !unicode.IsLetter(r) && !unicode.IsMark(r) && (r <= unicode.MaxASCII || !unicode.IsDigit(r)) {
		return nil
	}

	for _, t := range scripts {
		if unicode.Is(t, r) {
			return t
		}
	}

	return nil
}

// oddities counts what a wrong single-byte charset typically produces:
// letters of two scripts glued into one word, and stray non-ASCII symbols.
// A Latin-1 "Café" read as Windows-874 becomes "Caf" plus a Thai tone mark;
// Thai read as Windows-1252 is full of "¹" and "·".
func oddities(s string) int {
	var (
		n    int
		prev *unicode.RangeTable
	)

	for _, r := range s {
		cur := scriptOf(r)
		if cur != nil && prev != nil && cur != prev {
			n++
		}

		prev = cur

		if r <= unicode.MaxASCII || unicode.IsLetter(r) || unicode.IsMark(r) ||
			unicode.IsDigit(r) || unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			continue
		}

		n++
	}

	return n
}

// isText rejects unmapped bytes and control characters other than TAB, CR and LF.
func isText(s string) bool {
	if strings.ContainsRune(s, utf8.RuneError) {
		return false
	}

	for _, r := range s {
		if r == '\t' || r == '\r' || r == '\n' {
			continue
		}

		if unicode.IsControl(r) {
			return false
		}
	}

	return true
}
