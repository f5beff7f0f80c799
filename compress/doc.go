// Package compress provides compression and decompression codecs for batches
// of serialized sexp values held at rest.
//
// # Overview
//
// The on-wire binary format (package format/encode/decode) is deliberately
// uncompressed: symbol tables and tag bytes are cheap to decode directly.
// When many values are batched into a blob for storage or transport, an
// optional second compression stage can shrink that batch further. This
// package implements that second stage, supporting multiple algorithms:
//   - None: No compression (fastest, largest)
//   - Zstd: Excellent compression ratio, moderate speed
//   - S2: Balanced compression and speed
//   - LZ4: Fast decompression, moderate compression
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Supported Algorithms
//
// **NoOp Compression** (format.CompressionNone)
//
//	codec, _ := compress.CreateCodec(format.CompressionNone, "blob")
//	compressed, _ := codec.Compress(data)  // Returns data unchanged
//	original, _ := codec.Decompress(compressed)
//
// Use when:
//   - The batch is small or already well-packed by the binary format
//   - CPU is more critical than storage
//
// **Zstandard (Zstd)** (format.CompressionZstd)
//
// Best compression ratio, moderate speed. Good default for cold storage of
// large batches heavy on repeated symbol names and string atoms.
//
// **S2 (Snappy Alternative)** (format.CompressionS2)
//
// Fast in both directions with a lower compression ratio than Zstd. Good fit
// for hot-path batches written and read frequently.
//
// **LZ4** (format.CompressionLZ4)
//
// Very fast decompression, moderate compression. Good fit for read-heavy
// workloads where decode latency matters more than storage footprint.
//
// # Factory Functions
//
// CreateCodec and GetCodec both build a Codec from a format.CompressionType;
// CreateCodec allocates fresh state, GetCodec returns a shared package-level
// instance for the stateless built-in codecs.
package compress
