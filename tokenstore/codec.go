package tokenstore

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"time"

	"github.com/MrEthical07/goSession/api"
)

const (
	recordFormatVersionCurrent = 1

	maxTokenBytes = 1 << 16
)

// ErrRecordCorrupt is returned by Decode for blobs that do not carry a valid
// token record.
var ErrRecordCorrupt = errors.New("token record corrupt")

// Encode serializes a token pair and its persistence timestamp into the
// compact versioned format shared by the file and Redis stores.
func Encode(pair *api.TokenPair, storedAt time.Time) ([]byte, error) {
	if pair == nil {
		return nil, errors.New("nil token pair")
	}

	var buf bytes.Buffer
	buf.WriteByte(recordFormatVersionCurrent)

	if err := writeString(&buf, pair.AccessToken); err != nil {
		return nil, err
	}
	if err := writeString(&buf, pair.RefreshToken); err != nil {
		return nil, err
	}
	if err := writeString(&buf, pair.TokenType); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, pair.ExpiresIn); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, storedAt.Unix()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode reverses Encode.
func Decode(data []byte) (*api.TokenPair, time.Time, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, time.Time{}, ErrRecordCorrupt
	}
	if version != recordFormatVersionCurrent {
		return nil, time.Time{}, ErrRecordCorrupt
	}

	pair := &api.TokenPair{}
	if pair.AccessToken, err = readString(reader); err != nil {
		return nil, time.Time{}, ErrRecordCorrupt
	}
	if pair.RefreshToken, err = readString(reader); err != nil {
		return nil, time.Time{}, ErrRecordCorrupt
	}
	if pair.TokenType, err = readString(reader); err != nil {
		return nil, time.Time{}, ErrRecordCorrupt
	}
	if err = binary.Read(reader, binary.BigEndian, &pair.ExpiresIn); err != nil {
		return nil, time.Time{}, ErrRecordCorrupt
	}

	var storedUnix int64
	if err = binary.Read(reader, binary.BigEndian, &storedUnix); err != nil {
		return nil, time.Time{}, ErrRecordCorrupt
	}
	if reader.Len() != 0 {
		return nil, time.Time{}, ErrRecordCorrupt
	}

	return pair, time.Unix(storedUnix, 0).UTC(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) >= maxTokenBytes {
		return errors.New("token field too long")
	}
	if err := binary.Write(buf, binary.BigEndian, uint16(len(s))); err != nil {
		return err
	}
	buf.WriteString(s)
	return nil
}

func readString(reader *bytes.Reader) (string, error) {
	var length uint16
	if err := binary.Read(reader, binary.BigEndian, &length); err != nil {
		return "", err
	}
	raw := make([]byte, length)
	if _, err := io.ReadFull(reader, raw); err != nil {
		return "", err
	}
	return string(raw), nil
}
