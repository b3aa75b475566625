package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	errNotRIFF      = errors.New("not a RIFF/WAVE file")
	errNoDataChunk  = errors.New("no data chunk found")
	errShortSamples = errors.New("data chunk is truncated")
	errNotPCM       = errors.New("only uncompressed PCM audio is supported")
	errBadBitDepth  = errors.New("only 16-bit samples are supported")
)

// pcmFormatCode is the fmt chunk audio format tag for uncompressed PCM.
const pcmFormatCode = 1

// wavFormat holds the subset of the fmt chunk needed to open an audio device.
type wavFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// fmtChunkBaseSize is the size of the fields read from the fmt chunk.
const fmtChunkBaseSize = 16

// parseWAV walks the RIFF chunks of a WAV file and returns the format
// together with the raw PCM samples from the data chunk.
func parseWAV(data []byte) (*wavFormat, []byte, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, nil, errNotRIFF
	}

	reader := bytes.NewReader(data[12:])
	format := new(wavFormat)
	haveFormat := false

	for {
		var header struct {
			ID   [4]byte
			Size uint32
		}

		if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, nil, errNoDataChunk
			}

			return nil, nil, fmt.Errorf("read chunk header: %w", err)
		}

		switch string(header.ID[:]) {
		case "fmt ":
			if err := readFormatChunk(reader, header.Size, format); err != nil {
				return nil, nil, err
			}

			haveFormat = true
		case "data":
			if !haveFormat {
				return nil, nil, errors.New("data chunk precedes fmt chunk")
			}

			samples := make([]byte, header.Size)
			if _, err := io.ReadFull(reader, samples); err != nil {
				return nil, nil, errShortSamples
			}

			return format, samples, nil
		default:
			if _, err := reader.Seek(int64(header.Size), io.SeekCurrent); err != nil {
				return nil, nil, fmt.Errorf("skip chunk %q: %w", header.ID, err)
			}
		}

		// RIFF chunks are word aligned: an odd size is followed by a pad
		// byte that is not counted in the size field.
		if header.Size%2 == 1 {
			if _, err := reader.Seek(1, io.SeekCurrent); err != nil {
				return nil, nil, fmt.Errorf("skip pad byte after chunk %q: %w", header.ID, err)
			}
		}
	}
}

// readFormatChunk decodes the fmt chunk fields this player cares about.
func readFormatChunk(reader *bytes.Reader, size uint32, format *wavFormat) error {
	if size < fmtChunkBaseSize {
		return fmt.Errorf("fmt chunk too small: %d bytes", size)
	}

	var fields struct {
		AudioFormat   uint16
		NumChannels   uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
	}

	if err := binary.Read(reader, binary.LittleEndian, &fields); err != nil {
		return fmt.Errorf("read fmt chunk: %w", err)
	}

	// The device is always opened as signed 16-bit PCM, so anything else
	// has to be rejected here rather than played back as noise.
	if fields.AudioFormat != pcmFormatCode {
		return fmt.Errorf("%w, got format code %d", errNotPCM, fields.AudioFormat)
	}

	if fields.BitsPerSample != 16 {
		return fmt.Errorf("%w, got %d-bit", errBadBitDepth, fields.BitsPerSample)
	}

	format.Channels = int(fields.NumChannels)
	format.SampleRate = int(fields.SampleRate)
	format.BitDepth = int(fields.BitsPerSample)

	// Skip extension bytes some encoders append.
	if extra := int64(size) - fmtChunkBaseSize; extra > 0 {
		if _, err := reader.Seek(extra, io.SeekCurrent); err != nil {
			return fmt.Errorf("skip fmt extension: %w", err)
		}
	}

	return nil
}
