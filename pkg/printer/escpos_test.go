package printer

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestPlainDocumentLayout(t *testing.T) {
	doc := NewPlainDocument(20).
		SetAlign(AlignCenter).
		SetBold(true).
		Text("TIENDA").
		SetBold(false).
		SetAlign(AlignLeft).
		Separator('-').
		ItemLine(2, "Remera azul talle M", "100.00").
		KeyValue("TOTAL:", "100.00")

	lines := strings.Split(strings.TrimSuffix(doc.String(), "\n"), "\n")
	want := []string{
		"       TIENDA",
		"--------------------",
		// the name is cut so the total keeps its column
		"2x Remera azu 100.00",
		"TOTAL:" + strings.Repeat(" ", 8) + "100.00",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(lines), lines, len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if bytes.IndexByte(doc.Bytes(), ESC) >= 0 || bytes.IndexByte(doc.Bytes(), GS) >= 0 {
		t.Error("plain document must not carry printer commands")
	}
}

func TestEscPosDocumentCommands(t *testing.T) {
	data := NewDocument(32).SetBold(true).Text("x").PartialCut().Bytes()
	for _, cmd := range [][]byte{{ESC, '@'}, {ESC, 'E', 1}, {GS, 'V', 0x01}} {
		if !bytes.Contains(data, cmd) {
			t.Errorf("missing command %v in %v", cmd, data)
		}
	}
}

func TestFitCountsRunes(t *testing.T) {
	if got := fit("Añoranza", 3); got != "Año" {
		t.Errorf("fit = %q, want %q", got, "Año")
	}
	if got := fit("abc", 0); got != "" {
		t.Errorf("fit with no room = %q", got)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		kind, usb, addr string
		want            string
		wantErr         bool
	}{
		{kind: "", want: "none"},
		{kind: "none", want: "none"},
		{kind: "usb", usb: "/dev/usb/lp0", want: "usb"},
		{kind: "usb", wantErr: true},
		{kind: "network", addr: "10.0.0.9:9100", want: "network"},
		{kind: "network", wantErr: true},
		{kind: "bluetooth", wantErr: true},
	}
	for _, tt := range tests {
		p, err := New(tt.kind, tt.usb, tt.addr)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q) error = %v, wantErr %v", tt.kind, err, tt.wantErr)
			continue
		}
		if err == nil && p.Kind() != tt.want {
			t.Errorf("New(%q).Kind() = %q, want %q", tt.kind, p.Kind(), tt.want)
		}
	}
	if err := NewNullPrinter().Print(context.Background(), []byte("x")); err != nil {
		t.Errorf("null printer: %v", err)
	}
}
