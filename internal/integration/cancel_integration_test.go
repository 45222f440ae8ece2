package integration

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ca2ta/internal/app"
)

func TestCtrlC_MidParse_Exit130(t *testing.T) {
	// Big assembly file to make sure parsing is underway.
	prefix := filepath.Join(t.TempDir(), "big")
	write(t, prefix+".clr", "1 0 60\n")
	write(t, prefix+".frg", "{FRG\nacc:1\nsrc:\nr1\n.\nseq:\n"+strings.Repeat("A", 60)+"\n.\n}\n")

	f, err := os.Create(prefix + ".asm")
	if err != nil {
		t.Fatalf("create asm: %v", err)
	}
	cns := strings.Repeat("ACGT", 15)
	for i := 0; i < 300000; i++ {
		fmt.Fprintf(f, "{CCO\nacc:(%d)\nlen:60\ncns:\n%s\n.\nnpc:1\n{MPS\ntyp:R\nmid:1\npos:0,60\ndln:1\ndel:\n7\n}\n}\n", i, cns)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close asm: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	// Cancel shortly after start.
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	code := app.RunContext(ctx, []string{"-q", "-o", "-", prefix}, io.Discard, io.Discard)
	if code != 130 {
		t.Fatalf("expected exit 130 on cancel, got %d", code)
	}
}
