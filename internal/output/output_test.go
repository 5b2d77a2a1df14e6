package output

import (
	"testing"

	"github.com/amaydixit11/pwm/pkg/secret"
)

func TestParseMethod(t *testing.T) {
	cases := map[string]Method{
		"stdout":    Stdout,
		"STDOUT":    Stdout,
		"clipboard": Clipboard,
		"Clipboard": Clipboard,
	}
	for in, want := range cases {
		got, err := ParseMethod(in)
		if err != nil {
			t.Fatalf("ParseMethod(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseMethod(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseMethodRejectsUnknown(t *testing.T) {
	if _, err := ParseMethod("carrier-pigeon"); err == nil {
		t.Fatal("ParseMethod accepted an unknown method")
	}
}

func TestMethodString(t *testing.T) {
	if Stdout.String() != "stdout" {
		t.Fatalf("Stdout.String() = %q, want %q", Stdout.String(), "stdout")
	}
	if Clipboard.String() != "clipboard" {
		t.Fatalf("Clipboard.String() = %q, want %q", Clipboard.String(), "clipboard")
	}
}

func TestEncodeForDisplayPassesThroughText(t *testing.T) {
	data := secret.From([]byte("hunter2"))
	display := EncodeForDisplay(data, Auto, false)
	defer display.Close()
	if string(display.Bytes()) != "hunter2" {
		t.Fatalf("EncodeForDisplay(text, Auto, false) = %q, want raw passthrough", display.Bytes())
	}
}

func TestEncodeForDisplayBase64EncodesBinaryForNonBinarySink(t *testing.T) {
	data := secret.From([]byte{0xff, 0xfe, 0x00, 0x01})
	display := EncodeForDisplay(data, Auto, false)
	defer display.Close()
	if string(display.Bytes()) == string(data.Bytes()) {
		t.Fatal("EncodeForDisplay(binary, Auto, false) passed binary data through unencoded")
	}
}

func TestEncodeForDisplayPassesThroughBinaryForBinarySink(t *testing.T) {
	raw := []byte{0xff, 0xfe, 0x00, 0x01}
	data := secret.From(raw)
	display := EncodeForDisplay(data, Auto, true)
	defer display.Close()
	if string(display.Bytes()) != string(raw) {
		t.Fatalf("EncodeForDisplay(binary, Auto, true) = %v, want raw passthrough", display.Bytes())
	}
}

func TestEncodeForDisplayBinaryHintForcesEncodingEvenForValidUTF8(t *testing.T) {
	data := secret.From([]byte("hunter2"))
	display := EncodeForDisplay(data, Binary, false)
	defer display.Close()
	if string(display.Bytes()) == "hunter2" {
		t.Fatal("EncodeForDisplay(text, Binary, false) passed data through instead of base64-encoding it")
	}
}
