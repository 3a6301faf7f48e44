package rom

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeSet writes a fake 4-chip set where each chip is filled with a
// distinct byte, so that assembly order is visible in the image.
func writeSet(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for i, def := range segdefs {
		buf := make([]byte, SegSize)
		for j := range buf {
			buf[j] = byte(i + 1)
		}
		if err := os.WriteFile(filepath.Join(dir, def.name), buf, 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadDir(t *testing.T) {
	set, err := Load(writeSet(t))
	if err != nil {
		t.Fatal(err)
	}

	img := set.Image()
	if len(img) != ImageSize {
		t.Fatalf("image size = %d, want %d", len(img), ImageSize)
	}
	for i := range segdefs {
		off := i * SegSize
		if img[off] != byte(i+1) || img[off+SegSize-1] != byte(i+1) {
			t.Errorf("segment %d mapped at wrong offset", i)
		}
	}

	if set.Known() {
		t.Error("fake dump reported as known good")
	}
}

func TestLoadImageRoundTrip(t *testing.T) {
	set, err := Load(writeSet(t))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "invaders.rom")
	if err := os.WriteFile(path, set.Image(), 0644); err != nil {
		t.Fatal(err)
	}

	set2, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := range set.Segments {
		if set.Segments[i].Sum != set2.Segments[i].Sum {
			t.Errorf("%s: crc mismatch after round trip", set.Segments[i].Name)
		}
	}
}

func TestLoadBadSize(t *testing.T) {
	dir := writeSet(t)
	path := filepath.Join(dir, segdefs[0].name)
	if err := os.WriteFile(path, make([]byte, SegSize-1), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	var serr *SizeError
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want SizeError", err)
	}
	if serr.Name != segdefs[0].name || serr.Want != SegSize {
		t.Errorf("unexpected error detail: %+v", serr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := writeSet(t)
	os.Remove(filepath.Join(dir, segdefs[3].name))

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for missing chip file")
	}
}
