// Package persist saves and restores editing sessions as a single JSON
// document: the loaded PDF bytes, the annotation collection and the
// viewer and formatting state. A debounced [Saver] batches rapid
// mutations into one write.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pdfink/pdfink"
)

// Snapshot is the persisted session layout. FileData serializes as
// base64 through encoding/json. The formatting fields embed flat, so the
// stored document is a single level of keys.
type Snapshot struct {
	FileName    string            `json:"fileName"`
	FileData    []byte            `json:"fileData"`
	NumPages    int               `json:"numPages"`
	CurrentPage int               `json:"currentPage"`
	Scale       float64           `json:"scale"`
	Rotation    int               `json:"rotation"`
	Annotations pdfink.Collection `json:"annotations"`

	pdfink.Format

	// Timestamp is the capture time in milliseconds since the epoch.
	Timestamp int64 `json:"timestamp"`
}

// Capture builds a snapshot of the session's current state. The
// annotation collection is deep-copied, so the snapshot stays stable if
// the session keeps mutating.
func Capture(s *pdfink.Session) *Snapshot {
	st := s.State()
	snap := &Snapshot{
		FileName:    st.FileName,
		NumPages:    st.PageCount,
		CurrentPage: st.CurrentPage,
		Scale:       st.Scale,
		Rotation:    st.Rotation,
		Annotations: s.Store().Annotations().Clone(),
		Format:      s.Store().Format(),
		Timestamp:   time.Now().UnixMilli(),
	}
	if d := s.Document(); d != nil {
		snap.FileData = d.Bytes()
	}
	return snap
}

// Restore applies a snapshot to the session: the document is reloaded
// from the stored bytes, then annotations, formatting and viewer state
// are put back. The restored history starts at the loaded collection.
func Restore(s *pdfink.Session, snap *Snapshot) error {
	if len(snap.FileData) > 0 {
		if err := s.LoadDocument(snap.FileName, snap.FileData, nil); err != nil {
			return fmt.Errorf("persist: reload document: %w", err)
		}
	}
	s.Store().Load(snap.Annotations.Clone())
	s.Store().SetFormat(snap.Format)
	s.SetCurrentPage(snap.CurrentPage)
	s.SetScale(snap.Scale)
	s.SetRotation(snap.Rotation)
	return nil
}

// File stores snapshots at a fixed path.
type File struct {
	Path string
}

// Save writes the snapshot atomically: a temp file in the same directory
// is renamed over the target, so a crash mid-write never corrupts an
// existing session.
func (f *File) Save(snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("persist: encode session: %w", err)
	}
	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("persist: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}

// Load reads the stored snapshot. A missing file returns (nil, nil). A
// corrupt file is logged, removed and treated as absent, so startup
// always gets either a valid session or a fresh one.
func (f *File) Load() (*Snapshot, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		pdfink.Logger().Warn("discarding corrupt session file", "path", f.Path, "err", err)
		os.Remove(f.Path)
		return nil, nil
	}
	return &snap, nil
}

// DefaultDelay is the quiet interval a [Saver] waits after the last
// scheduled change before writing.
const DefaultDelay = 500 * time.Millisecond

// Saver debounces session writes. Schedule marks the session dirty and
// (re)starts the quiet timer; once no further changes arrive within the
// delay, the capture function runs and the snapshot is written. Flush and
// Close force a pending write out synchronously.
type Saver struct {
	file    *File
	capture func() *Snapshot
	delay   time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	dirty  bool
	closed bool
}

// NewSaver returns a debounced saver writing to file. capture is called
// on the saver's timer goroutine or inside Flush; it must be safe to call
// from either. A delay of zero means [DefaultDelay].
func NewSaver(file *File, capture func() *Snapshot, delay time.Duration) *Saver {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Saver{file: file, capture: capture, delay: delay}
}

// Schedule records that the session changed and arms the quiet timer.
func (s *Saver) Schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.dirty = true
	if s.timer == nil {
		s.timer = time.AfterFunc(s.delay, s.fire)
		return
	}
	s.timer.Reset(s.delay)
}

// fire runs on the timer goroutine after the quiet interval.
func (s *Saver) fire() {
	if err := s.Flush(); err != nil {
		pdfink.Logger().Warn("session save failed", "err", err)
	}
}

// Flush writes a pending snapshot now. It is a no-op when nothing changed
// since the last write.
func (s *Saver) Flush() error {
	s.mu.Lock()
	if !s.dirty || s.closed {
		s.mu.Unlock()
		return nil
	}
	s.dirty = false
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	return s.file.Save(s.capture())
}

// Close flushes any pending write and stops the saver. Schedule calls
// after Close are ignored.
func (s *Saver) Close() error {
	err := s.Flush()
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	return err
}
