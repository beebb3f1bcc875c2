package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeVector(t *testing.T) {
	v := []float32{1.5, -2.25, 0, 3.125}
	buf := encodeVector(v)
	require.Len(t, buf, 4*len(v))

	got, err := decodeVector(buf)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestEncodeVectorEmpty(t *testing.T) {
	buf := encodeVector(nil)
	assert.Empty(t, buf)

	got, err := decodeVector(buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeVectorRejectsMisalignedLength(t *testing.T) {
	_, err := decodeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestEncodeDecodeExamples(t *testing.T) {
	examples := []string{"a.go:12", "b.go:40"}
	raw, err := encodeExamples(examples)
	require.NoError(t, err)
	assert.Equal(t, `["a.go:12","b.go:40"]`, raw)

	got, err := decodeExamples(raw)
	require.NoError(t, err)
	assert.Equal(t, examples, got)
}

func TestEncodeExamplesNilBecomesEmptyArray(t *testing.T) {
	raw, err := encodeExamples(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestDecodeExamplesEmptyStringIsNil(t *testing.T) {
	got, err := decodeExamples("")
	require.NoError(t, err)
	assert.Nil(t, got)
}
