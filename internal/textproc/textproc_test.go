package textproc

import (
	"reflect"
	"testing"
)

func TestUnify(t *testing.T) {
	if got := Unify("main", ""); got != "main" {
		t.Fatalf("expected main text unchanged, got %q", got)
	}
	want := "main\n---QUOTED TWEET---\nquoted"
	if got := Unify("main", "quoted"); got != want {
		t.Fatalf("Unify = %q, want %q", got, want)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Dragon Ball", "dragon ball"},
		{"repairs split scheme", "see https://\nmega.nz/file/x", "see https://mega.nz/file/x"},
		{"repairs split scheme with spaces", "HTTP:// \n  example.com", "http://example.com"},
		{"straightens quotes", "“the witches” ‘x’", `"the witches" 'x'`},
		{"crlf", "a\r\nb", "a\nb"},
		{"collapses blanks", "a \t  b\n\nc", "a b\n\nc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	in := "Dragon Ball (1986)\r\n\r\nhttps://\nMEGA.nz/x  “quoted”"
	once := Normalize(in)
	if twice := Normalize(once); twice != once {
		t.Fatalf("expected idempotent normalize, got %q then %q", once, twice)
	}
}

func TestSegmenterSplit(t *testing.T) {
	seg, err := NewSegmenter([]string{`\n\s*\n`, `\n---quoted tweet---\n`, `\n\s*[-•*]\s+`})
	if err != nil {
		t.Fatalf("NewSegmenter: %v", err)
	}

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"blank lines", "a (1990)\nlink\n\n\nb (1991)\n", []string{"a (1990)\nlink", "b (1991)"}},
		{"falls through to marker", "one\n---quoted tweet---\ntwo", []string{"one", "two"}},
		{"bullets", "list\n- first\n- second", []string{"list", "first", "second"}},
		{"single block", "just one line", []string{"just one line"}},
		{"only empty pieces", "\n\n\n", []string{"\n\n\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := seg.Split(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Split(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewSegmenterRejectsBadExpression(t *testing.T) {
	if _, err := NewSegmenter([]string{"("}); err == nil {
		t.Fatal("expected compile error")
	}
}
