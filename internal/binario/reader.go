package binario

import (
	"encoding/binary"
	"io"
)

// Reader decodes fixed-width integers from the underlying reader. Every read
// either fills the whole value or fails with io.ErrUnexpectedEOF (io.EOF if
// nothing was read at all).
type Reader struct {
	byteOrder binary.ByteOrder
	reader    io.Reader
	buf       [8]byte
}

func NewReader(reader io.Reader, byteOrder binary.ByteOrder) *Reader {
	return &Reader{
		reader:    reader,
		byteOrder: byteOrder,
	}
}

func (r *Reader) fill(n int) ([]byte, error) {
	bs := r.buf[:n]
	if _, err := io.ReadFull(r.reader, bs); err != nil {
		return nil, err
	}

	return bs, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	bs, err := r.fill(1)
	if err != nil {
		return 0, err
	}

	return bs[0], nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	bs, err := r.fill(2)
	if err != nil {
		return 0, err
	}

	return r.byteOrder.Uint16(bs), nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	bs, err := r.fill(4)
	if err != nil {
		return 0, err
	}

	return r.byteOrder.Uint32(bs), nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	bs, err := r.fill(8)
	if err != nil {
		return 0, err
	}

	return r.byteOrder.Uint64(bs), nil
}

// ReadInt64 reads a two's complement signed 64-bit value.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}
