package textenc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"

	"github.com/yaklabco/cshtmlfmt/pkg/textenc"
)

func TestDecodeDetects(t *testing.T) {
	t.Parallel()

	sjis, err := japanese.ShiftJIS.NewEncoder().String("こんにちは")
	require.NoError(t, err)
	euckr, err := korean.EUCKR.NewEncoder().String("안녕")
	require.NoError(t, err)

	tests := []struct {
		name     string
		raw      []byte
		wantText string
		wantEnc  string
		wantBOM  bool
	}{
		{name: "plain utf-8", raw: []byte("<p>héllo</p>"), wantText: "<p>héllo</p>", wantEnc: textenc.UTF8},
		{name: "empty", raw: nil, wantText: "", wantEnc: textenc.UTF8},
		{name: "utf-8 bom", raw: []byte("\xef\xbb\xbf<div>"), wantText: "<div>", wantEnc: textenc.UTF8, wantBOM: true},
		{name: "utf-16le bom", raw: []byte{0xFF, 0xFE, 'a', 0, 'b', 0}, wantText: "ab", wantEnc: textenc.UTF16LE, wantBOM: true},
		{name: "utf-16be bom", raw: []byte{0xFE, 0xFF, 0, 'a'}, wantText: "a", wantEnc: textenc.UTF16BE, wantBOM: true},
		{name: "windows-1252", raw: []byte("caf\xe9"), wantText: "café", wantEnc: textenc.Windows1252},
		{name: "shift_jis kana", raw: []byte(sjis), wantText: "こんにちは", wantEnc: textenc.ShiftJIS},
		{name: "euc-kr hangul", raw: []byte(euckr), wantText: "안녕", wantEnc: textenc.EUCKR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := textenc.Decode(tt.raw, textenc.Auto)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantEnc, got.Encoding)
			assert.Equal(t, tt.wantBOM, got.BOM)
			assert.True(t, got.Detected)
		})
	}
}

func TestDecodeWithHint(t *testing.T) {
	t.Parallel()

	t.Run("forced legacy encoding", func(t *testing.T) {
		t.Parallel()

		got, err := textenc.Decode([]byte("caf\xe9"), "latin1")
		require.NoError(t, err)
		assert.Equal(t, "café", got.Text)
		assert.Equal(t, textenc.ISO88591, got.Encoding)
		assert.False(t, got.Detected)
	})

	t.Run("forced utf-8 rejects invalid bytes", func(t *testing.T) {
		t.Parallel()

		_, err := textenc.Decode([]byte("caf\xe9"), textenc.UTF8)
		require.ErrorIs(t, err, textenc.ErrInvalidText)
	})

	t.Run("unknown hint", func(t *testing.T) {
		t.Parallel()

		_, err := textenc.Decode([]byte("x"), "klingon")
		require.ErrorIs(t, err, textenc.ErrUnknownEncoding)
	})
}

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		enc     string
		bom     bool
		want    []byte
		wantErr error
	}{
		{name: "utf-8", text: "é", enc: textenc.UTF8, want: []byte("é")},
		{name: "utf-8 with bom", text: "a", enc: textenc.UTF8, bom: true, want: []byte("\xef\xbb\xbfa")},
		{name: "auto means utf-8", text: "a", enc: textenc.Auto, want: []byte("a")},
		{name: "windows-1252", text: "café", enc: "cp1252", want: []byte("caf\xe9")},
		{name: "utf-16le with bom", text: "a", enc: textenc.UTF16LE, bom: true, want: []byte{0xFF, 0xFE, 'a', 0}},
		{name: "bom ignored for legacy", text: "a", enc: textenc.Windows1252, bom: true, want: []byte("a")},
		{name: "unrepresentable", text: "日", enc: textenc.ISO88591, wantErr: textenc.ErrUnencodable},
		{name: "unknown", text: "a", enc: "nope", wantErr: textenc.ErrUnknownEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := textenc.Encode(tt.text, tt.enc, tt.bom)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeEncodePreservesBytes(t *testing.T) {
	t.Parallel()

	inputs := [][]byte{
		[]byte("\xef\xbb\xbf@{\n  var x = 1;\n}\n"),
		[]byte("<p>caf\xe9</p>\r\n"),
		{0xFF, 0xFE, '<', 0, 'p', 0, '>', 0},
	}

	for _, raw := range inputs {
		decoded, err := textenc.Decode(raw, textenc.Auto)
		require.NoError(t, err)

		encoded, err := textenc.Encode(decoded.Text, decoded.Encoding, decoded.BOM)
		require.NoError(t, err)
		assert.Equal(t, raw, encoded)
	}
}

func TestDecodeInvalidBytesRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := map[string][]byte{
		"mixed high bytes":       []byte("<div>\n<p>\xff\xff\x8f\x81\x80</p>\n</div>"),
		"truncated utf-8":        []byte("<p>\xe3\x81</p>"),
		"undefined cp1252 bytes": []byte("\x81\x8d\x8f\x90\x9d"),
		"stray continuation":     []byte("a\x80b\xbfc"),
		"lone lead byte at end":  []byte("<p>x</p>\xc3"),
	}

	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			decoded, err := textenc.Decode(raw, textenc.Auto)
			require.NoError(t, err)
			assert.NotEqual(t, textenc.UTF8, decoded.Encoding)
			assert.NotContains(t, decoded.Text, "\uFFFD")
			assert.True(t, textenc.RoundTrips(raw, decoded.Text, decoded.Encoding, decoded.BOM))

			encoded, err := textenc.Encode(decoded.Text, decoded.Encoding, decoded.BOM)
			require.NoError(t, err)
			assert.Equal(t, raw, encoded)
		})
	}
}

func TestRoundTrips(t *testing.T) {
	t.Parallel()

	assert.True(t, textenc.RoundTrips([]byte("caf\xe9"), "café", textenc.Windows1252, false))
	assert.True(t, textenc.RoundTrips([]byte("\xef\xbb\xbfa"), "a", textenc.UTF8, true))
	assert.False(t, textenc.RoundTrips([]byte("\xff\xfe"), "\uFFFD", textenc.UTF8, false))
	assert.False(t, textenc.RoundTrips([]byte("a"), "a", "nope", false))
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":          textenc.Auto,
		"AUTO":      textenc.Auto,
		"UTF8":      textenc.UTF8,
		" sjis ":    textenc.ShiftJIS,
		"Latin1":    textenc.ISO88591,
		"gbk":       textenc.GBK,
		"utf-16-le": textenc.UTF16LE,
	}

	for in, want := range tests {
		got, err := textenc.Canonical(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, name := range textenc.Names() {
		got, err := textenc.Canonical(name)
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}
}
