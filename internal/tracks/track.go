// Package tracks plays one selected audio track at a time, independent of
// the step sequencer, and keeps the list of uploaded tracks.
package tracks

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// Format is a decodable container.
type Format int

const (
	FormatUnknown Format = iota
	FormatMP3
	FormatWAV
	FormatOgg
)

func (f Format) String() string {
	switch f {
	case FormatMP3:
		return "mp3"
	case FormatWAV:
		return "wav"
	case FormatOgg:
		return "ogg"
	default:
		return "unknown"
	}
}

// Track is a playable item. Bundled tracks point at a file under the assets
// dir via Src; uploaded tracks carry their bytes in Data.
type Track struct {
	ID         string
	Title      string
	Author     string
	TempoLabel string
	BPM        int
	Src        string
	Data       []byte
	Format     Format
}

func (t Track) Uploaded() bool { return t.Data != nil }

var bundled = []Track{
	{ID: "1", Title: "Crystal Cave", BPM: 120, TempoLabel: "120", Author: "cynicmusic", Src: "sounds/song18.mp3", Format: FormatMP3},
	{ID: "2", Title: "High Stakes, Low Chances", BPM: 140, TempoLabel: "140", Author: "Ove Meela", Src: "sounds/HighStakes.mp3", Format: FormatMP3},
}

// Bundled returns the fixed playlist shipped with the app.
func Bundled() []Track {
	return append([]Track(nil), bundled...)
}

var extFormats = map[string]Format{
	".mp3":  FormatMP3,
	".wav":  FormatWAV,
	".wave": FormatWAV,
	".ogg":  FormatOgg,
	".oga":  FormatOgg,
}

var mimeFormats = map[string]Format{
	"audio/mpeg":      FormatMP3,
	"audio/mp3":       FormatMP3,
	"audio/wav":       FormatWAV,
	"audio/wave":      FormatWAV,
	"audio/x-wav":     FormatWAV,
	"audio/vnd.wave":  FormatWAV,
	"audio/ogg":       FormatOgg,
	"audio/vorbis":    FormatOgg,
	"application/ogg": FormatOgg,
}

// DetectFormat decides how to decode a file from its name, declared MIME
// type and leading bytes, in that order.
func DetectFormat(name, mimeType string, data []byte) Format {
	if f, ok := extFormats[strings.ToLower(filepath.Ext(name))]; ok {
		return f
	}
	if mimeType != "" {
		if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
			if f, ok := mimeFormats[mt]; ok {
				return f
			}
		}
	}
	if len(data) > 0 {
		sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(data))
		if f, ok := mimeFormats[sniffed]; ok {
			return f
		}
	}
	return FormatUnknown
}
