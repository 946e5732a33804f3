package iso8583

const bitmapSize = 8

// packBitmap builds the wire bitmap for the given present field set.
// Bit 1 (MSB of byte 0) flags a secondary bitmap, emitted only when a
// field above 64 is present.
func packBitmap(present []int) []byte {
	secondary := false
	for _, bit := range present {
		if bit > 64 {
			secondary = true
			break
		}
	}
	size := bitmapSize
	if secondary {
		size = 2 * bitmapSize
	}
	bitmap := make([]byte, size)
	if secondary {
		bitmap[0] |= 0x80 // bit 1: secondary bitmap present
	}
	for _, bit := range present {
		byteIndex := (bit - 1) / 8
		bitIndex := 7 - ((bit - 1) % 8)
		bitmap[byteIndex] |= 1 << bitIndex
	}
	return bitmap
}

// unpackBitmap reads the bitmap at the start of data and returns the
// present field indices (2..128, ascending) and the number of bytes
// consumed.
func unpackBitmap(data []byte) ([]int, int, error) {
	if len(data) < bitmapSize {
		return nil, 0, &BitmapError{Msg: "truncated primary bitmap"}
	}
	size := bitmapSize
	if data[0]&0x80 != 0 {
		size = 2 * bitmapSize
		if len(data) < size {
			return nil, 0, &BitmapError{Msg: "secondary bitmap indicated but truncated"}
		}
	}
	var present []int
	for bit := 2; bit <= size*8; bit++ {
		byteIndex := (bit - 1) / 8
		bitIndex := 7 - ((bit - 1) % 8)
		if data[byteIndex]&(1<<bitIndex) != 0 {
			present = append(present, bit)
		}
	}
	return present, size, nil
}
