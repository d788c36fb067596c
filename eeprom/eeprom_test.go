package eeprom

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type store interface {
	Init() error
	WriteVariable(slot, kind uint8, data []byte) error
	ReadVariable(slot, kind uint8) ([]byte, error)
}

func exercise(t *testing.T, s store) {

	t.Helper()

	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	data, err := s.ReadVariable(3, 0)
	if err != nil || len(data) != 0 {
		t.Fatalf("unwritten record: got %v, %v", data, err)
	}

	records := []struct {
		slot, kind uint8
		data       []byte
	}{
		{0, 0, []byte{0x00, 0x02, 0x00, 0x00}},
		{0, 1, []byte("hello")},
		{25, 2, []byte{1, 0, 0, 0, 2, 0, 0, 0}},
	}

	for _, r := range records {
		if err := s.WriteVariable(r.slot, r.kind, r.data); err != nil {
			t.Fatal(err)
		}
	}

	for _, r := range records {
		got, err := s.ReadVariable(r.slot, r.kind)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, r.data) {
			t.Fatalf("slot %d kind %d: got %v", r.slot, r.kind, got)
		}
	}

	if err := s.WriteVariable(26, 0, nil); !errors.Is(err, ErrBadKey) {
		t.Fatalf("got %v", err)
	}
	if _, err := s.ReadVariable(0, 3); !errors.Is(err, ErrBadKey) {
		t.Fatalf("got %v", err)
	}
}

func TestMemory(t *testing.T) {

	exercise(t, NewMemory())
}

func TestFile(t *testing.T) {

	path := filepath.Join(t.TempDir(), "eeprom.yaml")

	exercise(t, NewFile(path))

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "a$: 68656c6c6f") {
		t.Fatalf("got %s", content)
	}

	// a fresh store sees what the first one wrote
	f := NewFile(path)
	if err := f.Init(); err != nil {
		t.Fatal(err)
	}
	got, err := f.ReadVariable(0, 1)
	if err != nil || string(got) != "hello" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestFileBadContent(t *testing.T) {

	path := filepath.Join(t.TempDir(), "eeprom.yaml")
	if err := os.WriteFile(path, []byte("registers: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := NewFile(path).Init(); err == nil {
		t.Fatal("should error")
	}
}

func TestKeyName(t *testing.T) {

	for _, tt := range []struct {
		slot, kind uint8
		want       string
	}{
		{0, 0, "a"},
		{1, 1, "b$"},
		{25, 2, "z@"},
	} {
		if got := keyName(tt.slot, tt.kind); got != tt.want {
			t.Fatalf("got %q, want %q", got, tt.want)
		}
	}
}

//
// Needs a live server: UBASIC_TEST_MYSQL=user:pass@tcp(host:3306)/db
//

func TestMySQL(t *testing.T) {

	dsn := os.Getenv("UBASIC_TEST_MYSQL")
	if dsn == "" {
		t.Skip("UBASIC_TEST_MYSQL not set")
	}

	s, db, err := OpenMySQL(dsn, "ubasic_eeprom_test")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	defer db.Exec("DROP TABLE ubasic_eeprom_test")

	exercise(t, s)
}

func TestOpenMySQLBadDSN(t *testing.T) {

	if _, _, err := OpenMySQL("user@tcp(localhost:3306)/", ""); err == nil {
		t.Fatal("should error")
	}
}
