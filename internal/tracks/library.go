package tracks

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

const (
	UploadAuthor     = "Local Upload"
	UploadTempoLabel = "-"
)

var (
	ErrNotAudio = fault.New("not an audio file",
		fmsg.WithDesc("not an audio file", "Please upload an audio file"),
		ftag.With(ftag.InvalidArgument))

	ErrNotFound = fault.New("track not found", ftag.With(ftag.NotFound))
)

// Library is the list of uploaded tracks, newest last.
type Library struct {
	tracks []Track
	now    func() time.Time
	logger *slog.Logger
}

type LibraryOption func(*Library)

func WithClock(now func() time.Time) LibraryOption {
	return func(l *Library) {
		l.now = now
	}
}

func WithLibraryLogger(logger *slog.Logger) LibraryOption {
	return func(l *Library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewLibrary(opts ...LibraryOption) *Library {
	l := &Library{now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add validates and records an uploaded file. The title is the file name
// without its extension.
func (l *Library) Add(name, mimeType string, data []byte) (Track, error) {
	format := DetectFormat(name, mimeType, data)
	if format == FormatUnknown || len(data) == 0 {
		return Track{}, fault.Wrap(ErrNotAudio, fmsg.With(name))
	}
	base := filepath.Base(name)
	t := Track{
		ID:         l.newID(),
		Title:      strings.TrimSuffix(base, filepath.Ext(base)),
		Author:     UploadAuthor,
		TempoLabel: UploadTempoLabel,
		Src:        base,
		Data:       slices.Clone(data),
		Format:     format,
	}
	l.tracks = append(l.tracks, t)
	l.logger.Info("track uploaded", "id", t.ID, "title", t.Title, "format", format.String(), "bytes", len(data))
	return t, nil
}

// AddFile reads path from disk and adds it.
func (l *Library) AddFile(path string) (Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Track{}, fault.Wrap(err, fmsg.WithDesc("read "+path, "Could not read "+filepath.Base(path)))
	}
	return l.Add(path, "", data)
}

func (l *Library) newID() string {
	for {
		id := fmt.Sprintf("%d-%04d", l.now().UnixMilli(), rand.IntN(10000))
		if l.index(id) < 0 {
			return id
		}
	}
}

func (l *Library) index(id string) int {
	return slices.IndexFunc(l.tracks, func(t Track) bool { return t.ID == id })
}

func (l *Library) List() []Track {
	return slices.Clone(l.tracks)
}

func (l *Library) Len() int { return len(l.tracks) }

func (l *Library) Get(id string) (Track, error) {
	i := l.index(id)
	if i < 0 {
		return Track{}, fault.Wrap(ErrNotFound, fmsg.With("track "+id))
	}
	return l.tracks[i], nil
}

// Remove drops a track from the list. Callers playing it must eject it from
// the Player first; see Player.Release.
func (l *Library) Remove(id string) error {
	i := l.index(id)
	if i < 0 {
		return fault.Wrap(ErrNotFound, fmsg.With("track "+id))
	}
	l.tracks = slices.Delete(l.tracks, i, i+1)
	l.logger.Info("track removed", "id", id)
	return nil
}
