package fsutil

import (
	"errors"
	"io/fs"
	"testing"
	"time"
)

func TestMemoryFileSystemReadWrite(t *testing.T) {
	m := NewMemoryFileSystem()

	if err := m.WriteFile("data/VER/lap_1.csv", []byte("a,b\n1,2\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := m.ReadFile("data/VER/lap_1.csv")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "a,b\n1,2\n" {
		t.Errorf("content = %q", got)
	}

	if !m.Exists("data/VER/lap_1.csv") {
		t.Error("file should exist")
	}
	if !m.IsDir("data/VER") {
		t.Error("parent dir should exist")
	}
}

func TestMemoryFileSystemReadDirSorted(t *testing.T) {
	m := NewMemoryFileSystem()
	for _, name := range []string{"lap_3.csv", "lap_1.csv", "lap_10.csv"} {
		if err := m.WriteFile("data/VER/"+name, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := m.ReadDir("data/VER")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{"lap_1.csv", "lap_10.csv", "lap_3.csv"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestMemoryFileSystemMissing(t *testing.T) {
	m := NewMemoryFileSystem()

	if _, err := m.ReadFile("nope.csv"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile missing: %v", err)
	}
	if _, err := m.ReadDir("nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadDir missing: %v", err)
	}
	if m.Exists("nope") || m.IsDir("nope") {
		t.Error("missing path should not exist")
	}
}

func TestMemoryFileSystemSetModTime(t *testing.T) {
	m := NewMemoryFileSystem()
	if err := m.WriteFile("a.csv", []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	want := time.Date(2026, 3, 16, 5, 0, 0, 0, time.UTC)
	m.SetModTime("a.csv", want)

	info, err := m.Stat("a.csv")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info.ModTime().Equal(want) {
		t.Errorf("ModTime = %v, want %v", info.ModTime(), want)
	}
}

func TestOSFileSystem(t *testing.T) {
	var osfs OSFileSystem
	dir := t.TempDir()

	if err := osfs.MkdirAll(dir+"/sub", 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := osfs.WriteFile(dir+"/sub/f.csv", []byte("hi"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !osfs.IsDir(dir + "/sub") {
		t.Error("sub should be a dir")
	}
	data, err := osfs.ReadFile(dir + "/sub/f.csv")
	if err != nil || string(data) != "hi" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}
	entries, err := osfs.ReadDir(dir + "/sub")
	if err != nil || len(entries) != 1 {
		t.Errorf("ReadDir = %v, %v", entries, err)
	}
}
