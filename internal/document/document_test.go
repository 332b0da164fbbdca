package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{name: "txt", file: "resume.txt", content: "SKILLS: Python, SQL"},
		{name: "markdown", file: "job.md", content: "# Analyst\nPython"},
		{name: "no extension", file: "resume", content: "Go, Docker"},
		{name: "upper case extension", file: "resume.TXT", content: "Excel"},
		{name: "json content in text file", file: "skills.txt", content: `{"skills": ["Go", "SQL"]}`},
		{name: "whitespace only", file: "empty.txt", content: " \n\t", wantErr: ErrNoText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("write fixture: %v", err)
			}

			text, err := ExtractText(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if text != tt.content {
				t.Fatalf("expected %q, got %q", tt.content, text)
			}
		})
	}
}

func TestExtractRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	if _, err := Extract("resume.docx"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestExtractMissingFile(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.txt")
	if _, err := Extract(missing); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExtractInvalidPDF(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := Extract(path); err == nil {
		t.Fatal("expected error for invalid pdf")
	}
}

func TestExtractRejectsMislabeledContent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := Extract(path); err == nil {
		t.Fatal("expected error for pdf content in a text file")
	}
}
