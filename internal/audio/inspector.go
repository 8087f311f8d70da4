// Package audio validates uploaded audio blobs before any expensive
// processing begins: format allowlist, size ceiling, and a best-effort
// duration measurement.
package audio

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
)

// supportedFormats is the set of accepted file extensions (without dot).
var supportedFormats = map[string]bool{
	"mp3":  true,
	"wav":  true,
	"ogg":  true,
	"webm": true,
	"m4a":  true,
	"flac": true,
	"mp4":  true,
	"wma":  true,
}

// SupportedFormats returns the accepted extensions, for error messages and
// API documentation.
func SupportedFormats() []string {
	return []string{"mp3", "wav", "ogg", "webm", "m4a", "flac", "mp4", "wma"}
}

// UnsupportedFormatError indicates the uploaded file extension is not an
// accepted audio container.
type UnsupportedFormatError struct {
	Filename string
	Ext      string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported audio format %q (supported: %s)",
		e.Ext, strings.Join(SupportedFormats(), ", "))
}

// FileTooLargeError indicates the upload exceeds the configured ceiling.
type FileTooLargeError struct {
	SizeBytes  int64
	LimitBytes int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file too large (%.1fMB), max allowed %dMB",
		float64(e.SizeBytes)/(1024*1024), e.LimitBytes/(1024*1024))
}

// Info describes a validated audio blob.
type Info struct {
	DurationSeconds float64
	Format          string
	SizeBytes       int64
}

// Inspector validates audio uploads against a configured size ceiling.
type Inspector struct {
	maxFileSizeBytes int64
}

// NewInspector creates an inspector with the given ceiling in megabytes.
func NewInspector(maxFileSizeMB int) *Inspector {
	return &Inspector{maxFileSizeBytes: int64(maxFileSizeMB) * 1024 * 1024}
}

// Inspect validates the blob and measures it. Duration extraction is best
// effort: corrupt or non-WAV input yields 0 rather than an error, so that
// the recording can still be transcribed.
func (i *Inspector) Inspect(data []byte, filename string) (Info, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if !supportedFormats[ext] {
		return Info{}, &UnsupportedFormatError{Filename: filename, Ext: ext}
	}

	size := int64(len(data))
	if size > i.maxFileSizeBytes {
		return Info{}, &FileTooLargeError{SizeBytes: size, LimitBytes: i.maxFileSizeBytes}
	}

	info := Info{
		Format:    ext,
		SizeBytes: size,
	}
	if ext == "wav" {
		info.DurationSeconds = wavDuration(data)
	}
	return info, nil
}

// wavDuration walks the RIFF chunk list and derives the duration from the
// fmt chunk's byte rate and the data chunk's size. Returns 0 on any
// malformed header.
func wavDuration(data []byte) float64 {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return 0
	}

	var byteRate uint32
	var dataSize uint32

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		body := offset + 8

		switch chunkID {
		case "fmt ":
			if body+16 > len(data) {
				return 0
			}
			byteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
		case "data":
			dataSize = chunkSize
			// A truncated data chunk still gives a usable estimate from
			// the bytes actually present.
			if remaining := uint32(len(data) - body); dataSize > remaining {
				dataSize = remaining
			}
		}

		if byteRate > 0 && dataSize > 0 {
			break
		}

		// Chunks are word-aligned
		next := body + int(chunkSize)
		if chunkSize%2 == 1 {
			next++
		}
		if next <= offset {
			return 0
		}
		offset = next
	}

	if byteRate == 0 || dataSize == 0 {
		return 0
	}
	return float64(dataSize) / float64(byteRate)
}
