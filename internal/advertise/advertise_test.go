package advertise

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blob(window string) string {
	return strings.Repeat("0", NameStart) + window + strings.Repeat("0", NameEnd-NameStart-len(window)) + "deadbeef"
}

func TestDecodeName(t *testing.T) {
	name, err := DecodeName(blob("4c696e6b"), UTF8)
	require.NoError(t, err)
	assert.Equal(t, "Link", name)
}

func TestDecodeNameStripsPadding(t *testing.T) {
	name, err := DecodeName(blob("4c0069000000006e006b"), UTF8)
	require.NoError(t, err)
	assert.Equal(t, "Link", name)
}

func TestDecodeNameTooShort(t *testing.T) {
	_, err := DecodeName(strings.Repeat("0", NameEnd-1), UTF8)
	require.ErrorIs(t, err, ErrDecode)

	_, err = DecodeName("", UTF8)
	require.ErrorIs(t, err, ErrDecode)
}

func TestDecodeNameExactLength(t *testing.T) {
	data := strings.Repeat("0", NameStart) + "5a656c6461" + strings.Repeat("0", NameEnd-NameStart-10)
	require.Len(t, data, NameEnd)

	name, err := DecodeName(data, UTF8)
	require.NoError(t, err)
	assert.Equal(t, "Zelda", name)
}

func TestDecodeNameNotHex(t *testing.T) {
	_, err := DecodeName(blob("zz696e6b"), UTF8)
	require.ErrorIs(t, err, ErrDecode)
}

func TestDecodeNameInvalidUTF8(t *testing.T) {
	_, err := DecodeName(blob("ff41"), UTF8)
	require.ErrorIs(t, err, ErrDecode)

	name, err := DecodeName(blob("ff41"), Latin1)
	require.NoError(t, err)
	assert.Equal(t, "ÿA", name)
}

func TestDecodeNameMultibyteUTF8(t *testing.T) {
	data, err := EncodeName("ピカチュウ", UTF8, 0)
	require.NoError(t, err)

	name, err := DecodeName(data, UTF8)
	require.NoError(t, err)
	assert.Equal(t, "ピカチュウ", name)
}

func TestDecodeNameUTF16(t *testing.T) {
	data, err := EncodeName("ミク", UTF16LE, 0)
	require.NoError(t, err)

	name, err := DecodeName(data, UTF16LE)
	require.NoError(t, err)
	assert.Equal(t, "ミク", name)

	// ASCII code units lose their high zero byte, leaving an odd count.
	data, err = EncodeName("Lin", UTF16LE, 0)
	require.NoError(t, err)
	_, err = DecodeName(data, UTF16LE)
	require.ErrorIs(t, err, ErrDecode)
}

func TestDecodeNameDeterministic(t *testing.T) {
	data, err := EncodeName("Samus", UTF8, 384)
	require.NoError(t, err)
	require.Len(t, data, 768)

	first, err := DecodeName(data, UTF8)
	require.NoError(t, err)
	second, err := DecodeName(data, UTF8)
	require.NoError(t, err)

	assert.Equal(t, "Samus", first)
	assert.Equal(t, first, second)
}

func TestEncodeNameTruncates(t *testing.T) {
	data, err := EncodeName(strings.Repeat("x", 30), UTF8, 0)
	require.NoError(t, err)

	name, err := DecodeName(data, UTF8)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", NameSize), name)
}

func TestParseEncoding(t *testing.T) {
	for input, want := range map[string]Encoding{
		"":           UTF8,
		"UTF-8":      UTF8,
		"latin1":     Latin1,
		"ISO-8859-1": Latin1,
		"utf-16le":   UTF16LE,
		"utf16":      UTF16LE,
	} {
		got, err := ParseEncoding(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseEncoding("ebcdic")
	require.Error(t, err)
}
