package format

import (
	"bytes"
	"testing"
)

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"data": "<a>"}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got, want := buf.String(), "{\"data\":\"<a>\"}\n"; got != want {
		t.Fatalf("got %q; want %q", got, want)
	}

	buf.Reset()
	if err := Write(&buf, map[string]any{"a": 1}, "json", true); err != nil {
		t.Fatalf("Write pretty: %v", err)
	}
	if got, want := buf.String(), "{\n  \"a\": 1\n}\n"; got != want {
		t.Fatalf("got %q; want %q", got, want)
	}

	if err := Write(&buf, 1, "edn", false); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
