package input

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/entni-lin/vcf-filter/internal/errhandling"
)

const testVCF = "##fileformat=VCFv4.2\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
	"chr1\t100\t.\tA\tT\t.\t.\tDP=25;TLOD=12.5\n" +
	"chr1\t200\t.\tG\tC\t.\tweak_evidence\tDP=30;TLOD=8\n"

func TestVCFModule_ReadsAllRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.vcf")
	if err := os.WriteFile(path, []byte(testVCF), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	m, err := NewVCFFile(path)
	if err != nil {
		t.Fatalf("NewVCFFile() error = %v", err)
	}
	defer func() { _ = m.Close() }()

	if got := m.Header().FileFormat(); got != "VCFv4.2" {
		t.Errorf("FileFormat() = %q, want VCFv4.2", got)
	}

	var positions []int64
	for {
		rec, err := m.Next(context.Background())
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		positions = append(positions, rec.Pos())
	}

	if len(positions) != 2 || positions[0] != 100 || positions[1] != 200 {
		t.Errorf("positions = %v, want [100 200]", positions)
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}
}

func TestNewVCFFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.vcf")

	_, err := NewVCFFile(path)
	if err == nil {
		t.Fatal("expected error for missing input")
	}
	if errhandling.GetErrorCategory(err) != errhandling.CategoryIO {
		t.Errorf("category = %s, want io", errhandling.GetErrorCategory(err))
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestNewVCFReader_BadHeader(t *testing.T) {
	_, err := NewVCFReader("stdin", strings.NewReader("chr1\t1\t.\tA\tT\t.\t.\t.\n"))
	if err == nil {
		t.Fatal("expected error for input without header")
	}
	if errhandling.GetErrorCategory(err) != errhandling.CategoryIO {
		t.Errorf("category = %s, want io", errhandling.GetErrorCategory(err))
	}
}

func TestVCFModule_MalformedRecord(t *testing.T) {
	m, err := NewVCFReader("calls", strings.NewReader("#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\nnot a record\n"))
	if err != nil {
		t.Fatalf("NewVCFReader() error = %v", err)
	}

	_, err = m.Next(context.Background())
	if err == nil || err == io.EOF {
		t.Fatalf("expected record error, got %v", err)
	}
	if !errhandling.IsFatal(err) {
		t.Error("malformed record must be fatal")
	}
}

func TestVCFModule_ContextCancelled(t *testing.T) {
	m, err := NewVCFReader("calls", strings.NewReader(testVCF))
	if err != nil {
		t.Fatalf("NewVCFReader() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
	if m.Count() != 0 {
		t.Errorf("Count() = %d, want 0", m.Count())
	}
}
