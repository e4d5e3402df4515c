package utils

import (
	"os"
	"testing"
)

func TestLoggerInfofSuppressedWhenNotVerbose(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	l := NewLogger(f, false)
	l.Infof("hello %s", "world")

	assertFileEmpty(t, f)
}

func TestLoggerInfofPrintedWhenVerbose(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	l := NewLogger(f, true)
	l.Infof("hello %s", "world")

	assertFileNonEmpty(t, f)
}

func TestLoggerErrorfAlwaysPrints(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	l := NewLogger(f, false)
	l.Errorf("boom")

	assertFileNonEmpty(t, f)
}

func assertFileEmpty(t *testing.T, f *os.File) {
	t.Helper()
	info, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty file, got size %d", info.Size())
	}
}

func assertFileNonEmpty(t *testing.T, f *os.File) {
	t.Helper()
	info, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected non-empty file")
	}
}
