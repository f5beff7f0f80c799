package compress

import (
	"testing"

	"github.com/sexpcore/sexp/format"
	"github.com/stretchr/testify/require"
)

func TestCreateCodecAllTypes(t *testing.T) {
	cases := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	for _, ct := range cases {
		codec, err := CreateCodec(ct, "test")
		require.NoError(t, err)
		require.NotNil(t, codec)
	}
}

func TestCreateCodecInvalid(t *testing.T) {
	_, err := CreateCodec(format.CompressionType(99), "scratch buffer")
	require.Error(t, err)
}

func TestGetCodecBuiltins(t *testing.T) {
	codec, err := GetCodec(format.CompressionZstd)
	require.NoError(t, err)
	require.NotNil(t, codec)

	_, err = GetCodec(format.CompressionType(99))
	require.Error(t, err)
}

func TestRoundTripAllCodecs(t *testing.T) {
	payload := []byte("(define (fact n) (if (<= n 1) 1 (* n (fact (- n 1)))))")

	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		codec, err := CreateCodec(ct, "roundtrip")
		require.NoError(t, err)

		compressed, err := codec.Compress(payload)
		require.NoError(t, err)

		decompressed, err := codec.Decompress(compressed)
		require.NoError(t, err)
		require.Equal(t, payload, decompressed)
	}
}

func TestRoundTripEmptyInput(t *testing.T) {
	codec, err := CreateCodec(format.CompressionZstd, "empty")
	require.NoError(t, err)

	compressed, err := codec.Compress(nil)
	require.NoError(t, err)

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Empty(t, decompressed)
}

func TestCompressionStatsRatio(t *testing.T) {
	stats := CompressionStats{
		Algorithm:      format.CompressionZstd,
		OriginalSize:   100,
		CompressedSize: 25,
	}

	require.InDelta(t, 0.25, stats.CompressionRatio(), 0.0001)
	require.InDelta(t, 75.0, stats.SpaceSavings(), 0.0001)
}

func TestCompressionStatsZeroOriginal(t *testing.T) {
	stats := CompressionStats{}
	require.Equal(t, 0.0, stats.CompressionRatio())
}
