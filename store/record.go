package store

import (
	"encoding/binary"
	"errors"

	"github.com/permbit/permbit/permission"
)

const (
	recordVersionV1 = 1

	// version byte + uint32 grant version + 8-byte mask
	encodedRecordSize = 1 + 4 + permission.EncodedSize
)

func encodeRecord(record *Record) ([]byte, error) {
	if record == nil {
		return nil, errors.New("nil grant record")
	}

	buf := make([]byte, encodedRecordSize)
	buf[0] = recordVersionV1
	binary.BigEndian.PutUint32(buf[1:5], record.Version)
	copy(buf[5:], permission.Encode(record.Set))

	return buf, nil
}

func decodeRecord(data []byte) (*Record, error) {
	if len(data) != encodedRecordSize || data[0] != recordVersionV1 {
		return nil, ErrRecordCorrupt
	}

	set, err := permission.Decode(data[5:])
	if err != nil {
		return nil, ErrRecordCorrupt
	}

	return &Record{
		Version: binary.BigEndian.Uint32(data[1:5]),
		Set:     set,
	}, nil
}
