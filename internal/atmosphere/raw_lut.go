package atmosphere

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// rawMagic opens every raw LUT file; the rest of the file is one zstd stream.
var rawMagic = [4]byte{'A', 'L', 'U', 'T'}

const rawFlagHalf = 1

// maxRawLUTTexels bounds the allocation made for a file header (1 GiB of float32 RGBA).
const maxRawLUTTexels = 1 << 26

// SaveRawLUT writes the texture as a zstd-compressed stream:
// magic, then Width, Height, Depth, Channels, flags as int32 (little-endian), then the float32 texels.
func (t *Texture) SaveRawLUT(path string) error {
	// Sanity checks
	if t.Width <= 0 || t.Height <= 0 || t.Depth <= 0 {
		return fmt.Errorf("non-positive dimensions: W=%d H=%d D=%d", t.Width, t.Height, t.Depth)
	}
	exp64 := int64(t.Width) * int64(t.Height) * int64(t.Depth) * Channels
	if int64(len(t.Pix)) != exp64 {
		return fmt.Errorf("Pix length mismatch: got %d, expected %d (W*H*D*4)", len(t.Pix), exp64)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.Write(rawMagic[:]); err != nil {
		return err
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	flags := int32(0)
	if t.Half {
		flags |= rawFlagHalf
	}
	header := []int32{int32(t.Width), int32(t.Height), int32(t.Depth), Channels, flags}
	if err := binary.Write(enc, binary.LittleEndian, header); err != nil {
		_ = enc.Close()
		return err
	}
	if err := binary.Write(enc, binary.LittleEndian, t.Pix); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_ = f.Sync() // optional
	DebugLog("Saved raw LUT %s to %s", t.Label, path)
	return nil
}

// LoadRawLUT reads a texture written by SaveRawLUT.
func LoadRawLUT(path, label string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if magic != rawMagic {
		return nil, errors.New("not a raw LUT file")
	}
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var header [5]int32
	if err := binary.Read(dec, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	w, h, d, ch := int(header[0]), int(header[1]), int(header[2]), int(header[3])
	if w <= 0 || h <= 0 || d <= 0 || ch != Channels {
		return nil, fmt.Errorf("bad raw LUT header: (%d, %d, %d) channels=%d", w, h, d, ch)
	}
	if n := int64(w) * int64(h) * int64(d); n > maxRawLUTTexels {
		return nil, fmt.Errorf("raw LUT too large: (%d, %d, %d) = %d texels, max %d", w, h, d, n, maxRawLUTTexels)
	}
	t := NewTexture3D(label, w, h, d)
	t.Half = header[4]&rawFlagHalf != 0
	if err := binary.Read(dec, binary.LittleEndian, t.Pix); err != nil {
		return nil, fmt.Errorf("read texels: %w", err)
	}
	return t, nil
}
