package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/shopledger/internal/encoding"
)

func TestDecode_UTF8Passthrough(t *testing.T) {
	// Valid UTF-8 with Thai characters should pass through unchanged.
	input := "date,amount,category\n2025-10-18,50,ถ่ายเอกสาร\n"

	got, err := encoding.Decode([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, input, got.Text)
	assert.Equal(t, "UTF-8", got.Charset)
}

func TestDecode_UTF8BOM(t *testing.T) {
	// UTF-8 BOM (0xEF 0xBB 0xBF) should be stripped.
	bom := []byte{0xEF, 0xBB, 0xBF}
	input := append(bom, []byte("date,amount\n")...)

	got, err := encoding.Decode(input)
	require.NoError(t, err)
	assert.Equal(t, "date,amount\n", got.Text)
	assert.Equal(t, "UTF-8-BOM", got.Charset)
}

func TestDecode_UTF16LE(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	input, err := enc.Bytes([]byte("date,amount\n2025-10-18,50\n"))
	require.NoError(t, err)

	got, err := encoding.Decode(input)
	require.NoError(t, err)
	assert.Equal(t, "date,amount\n2025-10-18,50\n", got.Text)
	assert.Equal(t, "UTF-16LE", got.Charset)
}

func TestDecode_Thai874(t *testing.T) {
	utf8CSV := "วันที่,จำนวนเงิน,หมวดหมู่\n2025-10-18,50,ค่าหมึก\n"

	thaiBytes, err := charmap.Windows874.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	got, err := encoding.Decode(thaiBytes)
	require.NoError(t, err)
	assert.Equal(t, utf8CSV, got.Text)
	assert.Equal(t, "windows-874", got.Charset)
}

func TestDecoder_Latin1(t *testing.T) {
	// Windows-1252 encoded "Descrição,Montante\n".
	// In Windows-1252: ç = 0xE7, ã = 0xE3
	latin1Bytes := []byte{
		'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', ',',
		'M', 'o', 'n', 't', 'a', 'n', 't', 'e', '\n',
	}

	got, err := encoding.NewDecoder(encoding.Windows1252).Decode(latin1Bytes)
	require.NoError(t, err)
	assert.Equal(t, "Descrição,Montante\n", got.Text)
	assert.Equal(t, "windows-1252", got.Charset)
}

func TestDecode_LegacyPicksPlausibleCharset(t *testing.T) {
	tests := []struct {
		name string
		text string
		enc  *charmap.Charmap
		want string
	}{
		{
			name: "French1252",
			text: "date,amount,description\n2025-10-18,50,Café crème\n2025-10-19,-20,Reçu de matériel\n",
			enc:  charmap.Windows1252,
			want: "windows-1252",
		},
		{
			name: "Portuguese1252",
			text: "data,valor,descrição\n2025-10-18,50,Impressão\n",
			enc:  charmap.Windows1252,
			want: "windows-1252",
		},
		{
			name: "German1252",
			text: "date,amount,description\n2025-10-18,5,Größe A4\n",
			enc:  charmap.Windows1252,
			want: "windows-1252",
		},
		{
			name: "Thai874",
			text: "วันที่,ประเภท,จำนวนเงิน\n2025-10-18,รายจ่าย,120\n",
			enc:  charmap.Windows874,
			want: "windows-874",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := tt.enc.NewEncoder().Bytes([]byte(tt.text))
			require.NoError(t, err)

			got, err := encoding.Decode(payload)
			require.NoError(t, err)
			assert.Equal(t, tt.text, got.Text)
			assert.Equal(t, tt.want, got.Charset)
		})
	}
}

func TestDecode_Unreadable(t *testing.T) {
	tests := map[string][]byte{
		"Binary":         {0x00, 0x01, 0x02, 0x03, 0x04},
		"BrokenAfterBOM": {0xEF, 0xBB, 0xBF, 0xFF, 0xFE, 0x00},
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := encoding.Decode(input)
			assert.ErrorIs(t, err, encoding.ErrUnreadable)
		})
	}
}
