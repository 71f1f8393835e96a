package persist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/pdfink/pdfink"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		FileName:    "contract.pdf",
		FileData:    []byte("%PDF-1.7 fake"),
		NumPages:    3,
		CurrentPage: 2,
		Scale:       1.5,
		Rotation:    90,
		Annotations: pdfink.Collection{
			&pdfink.Rect{
				Common: pdfink.Common{ID: "r1", Name: "Rectangle 1", Page: 1, Position: pdfink.Pt(10, 10)},
				Box:    pdfink.Box{Width: 100, Height: 40},
			},
			&pdfink.Stroke{
				Common: pdfink.Common{ID: "p1", Name: "Pen 1", Page: 3, Position: pdfink.Pt(1, 1)},
				Points: []pdfink.Point{pdfink.Pt(1, 1), pdfink.Pt(4, 5)},
			},
		},
		Format:    pdfink.DefaultFormat(),
		Timestamp: 1700000000000,
	}
}

func TestFileSaveLoadRoundTrip(t *testing.T) {
	f := &File{Path: filepath.Join(t.TempDir(), "session.json")}
	want := testSnapshot()

	if err := f.Save(want); err != nil {
		t.Fatalf("Save = %v", err)
	}
	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load = %v", err)
	}
	if got == nil {
		t.Fatal("Load = nil for an existing session")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFileLoadMissing(t *testing.T) {
	f := &File{Path: filepath.Join(t.TempDir(), "absent.json")}
	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load = %v", err)
	}
	if got != nil {
		t.Errorf("Load of missing file = %+v, want nil", got)
	}
}

func TestFileLoadDiscardsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := &File{Path: path}

	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load = %v", err)
	}
	if got != nil {
		t.Errorf("Load of corrupt file = %+v, want nil", got)
	}
	// The corrupt file is removed so the next run starts clean.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt session file still exists after Load")
	}
}

func TestSnapshotFieldsAreFlat(t *testing.T) {
	data, err := json.Marshal(testSnapshot())
	if err != nil {
		t.Fatalf("Marshal = %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{
		"fileName", "fileData", "numPages", "currentPage", "scale",
		"rotation", "annotations", "currentColor", "strokeColor",
		"strokeWidth", "fontFamily", "fontSize", "textAlign", "timestamp",
	} {
		if _, ok := m[key]; !ok {
			t.Errorf("marshaled session lacks top-level key %q", key)
		}
	}
}

func TestCaptureAndRestore(t *testing.T) {
	src := pdfink.NewSession()
	src.Store().Add(&pdfink.Rect{Common: pdfink.Common{Page: 1, Position: pdfink.Pt(3, 4)}})
	f := src.Store().Format()
	f.StrokeWidth = 7
	src.Store().SetFormat(f)

	snap := Capture(src)
	if snap.Timestamp == 0 {
		t.Error("Capture left the timestamp unset")
	}
	if got := len(snap.Annotations); got != 1 {
		t.Fatalf("captured %d annotations, want 1", got)
	}

	// The snapshot is isolated from further session mutations.
	src.Store().Add(&pdfink.Ellipse{Common: pdfink.Common{Page: 1}})
	if got := len(snap.Annotations); got != 1 {
		t.Errorf("snapshot grew to %d annotations after capture", got)
	}

	dst := pdfink.NewSession()
	if err := Restore(dst, snap); err != nil {
		t.Fatalf("Restore = %v", err)
	}
	if got := len(dst.Store().Annotations()); got != 1 {
		t.Errorf("restored %d annotations, want 1", got)
	}
	if got := dst.Store().Format().StrokeWidth; got != 7 {
		t.Errorf("restored stroke width = %g, want 7", got)
	}
	// A restored session starts its history at the loaded state.
	if dst.Store().CanUndo() {
		t.Error("restored session can undo into nothing")
	}
}

func TestSaverDebounces(t *testing.T) {
	f := &File{Path: filepath.Join(t.TempDir(), "session.json")}
	var captures atomic.Int32
	s := NewSaver(f, func() *Snapshot {
		captures.Add(1)
		return testSnapshot()
	}, 20*time.Millisecond)
	defer s.Close()

	// A burst of changes coalesces into one write.
	for i := 0; i < 10; i++ {
		s.Schedule()
	}
	deadline := time.Now().Add(2 * time.Second)
	for captures.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := captures.Load(); got != 1 {
		t.Errorf("captures after burst = %d, want 1", got)
	}
	if snap, err := f.Load(); err != nil || snap == nil {
		t.Errorf("Load after debounce = %+v, %v", snap, err)
	}
}

func TestSaverFlush(t *testing.T) {
	f := &File{Path: filepath.Join(t.TempDir(), "session.json")}
	s := NewSaver(f, testSnapshot, time.Hour)

	// Nothing scheduled yet: Flush is a no-op.
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush = %v", err)
	}
	if _, err := os.Stat(f.Path); !os.IsNotExist(err) {
		t.Error("Flush wrote a file with nothing pending")
	}

	s.Schedule()
	if err := s.Close(); err != nil {
		t.Fatalf("Close = %v", err)
	}
	if snap, err := f.Load(); err != nil || snap == nil {
		t.Errorf("Load after Close = %+v, %v", snap, err)
	}

	// Schedule after Close is ignored.
	s.Schedule()
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush after Close = %v", err)
	}
}
