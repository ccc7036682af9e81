package burstpick

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileMover_Move(t *testing.T) {
	t.Parallel()

	src := writeFile(t, t.TempDir(), "C001a.jpg", []byte("frame"))
	destDir := t.TempDir()

	dst, err := FileMover{}.Move(src, destDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dst != filepath.Join(destDir, "C001a.jpg") {
		t.Errorf("dst = %q", dst)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still exists after move")
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "frame" {
		t.Errorf("moved contents = %q, %v", data, err)
	}
}

func TestFileMover_RefusesOverwrite(t *testing.T) {
	t.Parallel()

	src := writeFile(t, t.TempDir(), "C001a.jpg", []byte("new"))
	destDir := t.TempDir()
	existing := writeFile(t, destDir, "C001a.jpg", []byte("old"))

	_, err := FileMover{}.Move(src, destDir)
	if !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("err = %v, want ErrDestinationExists", err)
	}
	if data, _ := os.ReadFile(existing); string(data) != "old" {
		t.Errorf("existing file overwritten: %q", data)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source should be left in place: %v", err)
	}
}

func TestFileMover_MissingSource(t *testing.T) {
	t.Parallel()

	_, err := FileMover{}.Move(filepath.Join(t.TempDir(), "gone.jpg"), t.TempDir())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}

func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "a.jpg", []byte("payload"))
	dst := filepath.Join(dir, "b.jpg")

	if err := copyFile(src, dst); err != nil {
		t.Fatalf("copyFile: %v", err)
	}
	if data, _ := os.ReadFile(dst); string(data) != "payload" {
		t.Errorf("copied contents = %q", data)
	}
	if err := copyFile(src, dst); err == nil {
		t.Error("expected copyFile to refuse an existing destination")
	}
}

// countingMover succeeds after failing a fixed number of times.
type countingMover struct {
	failures int
	calls    int
}

func (m *countingMover) Move(src, destDir string) (string, error) {
	m.calls++
	if m.calls <= m.failures {
		return "", errors.New("transient")
	}
	return filepath.Join(destDir, filepath.Base(src)), nil
}

func TestRelocate_RetriesOnce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		failures  int
		wantCalls int
		wantErr   bool
	}{
		{name: "first attempt succeeds", failures: 0, wantCalls: 1},
		{name: "retry succeeds", failures: 1, wantCalls: 2},
		{name: "retry fails", failures: 2, wantCalls: 2, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := &countingMover{failures: tc.failures}
			_, err := relocate(m, "/src/C001a.jpg", "/dst")
			if m.calls != tc.wantCalls {
				t.Errorf("calls = %d, want %d", m.calls, tc.wantCalls)
			}
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrRelocate) {
				t.Errorf("err = %v, want ErrRelocate", err)
			}
		})
	}
}

func TestMoveByCopy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "C001a.jpg", []byte("frame"))
	dst := filepath.Join(t.TempDir(), "C001a.jpg")

	if err := moveByCopy(src, dst, os.Remove); err != nil {
		t.Fatalf("moveByCopy: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still exists after move")
	}
	if data, _ := os.ReadFile(dst); string(data) != "frame" {
		t.Errorf("moved contents = %q", data)
	}
}

func TestMoveByCopy_SourceNotRemovable(t *testing.T) {
	t.Parallel()

	src := writeFile(t, t.TempDir(), "C001a.jpg", []byte("frame"))
	destDir := t.TempDir()
	dst := filepath.Join(destDir, "C001a.jpg")
	stuck := func(string) error { return os.ErrPermission }

	for attempt := range 2 {
		err := moveByCopy(src, dst, stuck)
		if !errors.Is(err, os.ErrPermission) {
			t.Fatalf("attempt %d: err = %v, want the removal cause", attempt+1, err)
		}
		if errors.Is(err, ErrDestinationExists) {
			t.Fatalf("attempt %d: removal cause hidden by %v", attempt+1, err)
		}
		if _, err := os.Stat(dst); !os.IsNotExist(err) {
			t.Fatalf("attempt %d: copy left in the destination", attempt+1)
		}
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source should be left in place: %v", err)
	}
}
