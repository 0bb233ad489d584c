package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolarWolf314/huna/internal/charset"
	kerrors "github.com/PolarWolf314/huna/internal/errors"
)

func TestFromBytesText(t *testing.T) {
	c := FromBytes([]byte("Hello World"))

	text, ok := c.(Text)
	require.True(t, ok, "expected Text, got %T", c)
	assert.Equal(t, "Hello World", text.Value)
	assert.Equal(t, charset.UTF8, text.Encoding)
	assert.False(t, IsBinary(c))
	assert.Equal(t, charset.UTF8, EncodingOf(c))
}

func TestFromBytesBinary(t *testing.T) {
	raw := []byte{0x00, 0x01, 0x02, 0xff, 0xfe}
	c := FromBytes(raw)

	assert.True(t, IsBinary(c))
	assert.Equal(t, charset.Binary, EncodingOf(c))
	assert.Equal(t, raw, Payload(c))
}

func TestRawIsLossless(t *testing.T) {
	inputs := [][]byte{
		[]byte("plain\r\nwindows line endings\r\n"),
		[]byte("naïve café"),
		{0x89, 'P', 'N', 'G', 0x00, 0x00},
		{},
	}

	for _, raw := range inputs {
		c := FromBytes(raw)
		got, err := Raw(c)
		require.NoError(t, err)
		assert.Equal(t, string(raw), string(got))
	}
}

func TestPayloadRoundTripLegacyEncoding(t *testing.T) {
	raw, err := charset.Encode("こんにちは", "shift_jis")
	require.NoError(t, err)

	c, err := FromTagged(raw, "shift_jis")
	require.NoError(t, err)

	payload := Payload(c)
	assert.Equal(t, "こんにちは", string(payload))

	back, err := FromPayload(payload, "shift_jis")
	require.NoError(t, err)
	out, err := Raw(back)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestFromPayloadRejectsGarbageText(t *testing.T) {
	_, err := FromPayload([]byte{0xc3, 0x28}, charset.UTF8)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kerrors.ErrDecryptionFailed))
}

func TestFromPayloadUnknownEncoding(t *testing.T) {
	_, err := FromPayload([]byte("x"), "ebcdic")
	assert.True(t, errors.Is(err, kerrors.ErrCorruptedMetadata))
}

func TestFromText(t *testing.T) {
	c, err := FromText("edited", charset.UTF8)
	require.NoError(t, err)
	assert.Equal(t, 6, Len(c))

	_, err = FromText("edited", charset.Binary)
	assert.True(t, errors.Is(err, kerrors.ErrValidation))
}

func TestRawUnrepresentableText(t *testing.T) {
	_, err := Raw(Text{Value: "emoji 🙂", Encoding: "iso-8859-1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, kerrors.ErrValidation))

	_, err = Raw(nil)
	assert.True(t, errors.Is(err, kerrors.ErrValidation))
}
