package localfs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

func TestSaveAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	storage, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if err := storage.Save(ctx, "abc_resume.pdf", strings.NewReader("%PDF")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	raw, err := os.ReadFile(storage.Path("abc_resume.pdf"))
	if err != nil || string(raw) != "%PDF" {
		t.Fatalf("unexpected stored file %q, %v", raw, err)
	}
	if err := storage.Save(ctx, "abc_resume.pdf", strings.NewReader("again")); err == nil {
		t.Fatal("expected existing key to be rejected")
	}

	if err := storage.Remove(ctx, "abc_resume.pdf"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(storage.Path("abc_resume.pdf")); !os.IsNotExist(err) {
		t.Fatalf("expected file to be gone, stat err = %v", err)
	}
	if err := storage.Remove(ctx, "abc_resume.pdf"); err != nil {
		t.Fatalf("removing a missing file must succeed: %v", err)
	}
}

func TestRejectsKeysOutsideBaseDir(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, key := range []string{"", "..", "../escape.pdf", `a\b.pdf`} {
		if err := storage.Save(context.Background(), key, strings.NewReader("x")); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("key %q: expected ErrInvalidInput, got %v", key, err)
		}
	}
}
