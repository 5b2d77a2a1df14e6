package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/amaydixit11/pwm/internal/output"
	"github.com/amaydixit11/pwm/pkg/pwgen"
)

// wpaMaxPasswordLength is the longest password a WPA network accepts.
const wpaMaxPasswordLength = 63

var wpaPasswordCharsets = []pwgen.CharacterSet{pwgen.Letters, pwgen.Numbers, pwgen.Symbols}

// qrImageSizePixels is the rendered width and height of the generated QR
// code, in pixels.
const qrImageSizePixels = 300

var recoveryLevels = map[string]qrcode.RecoveryLevel{
	"low":      qrcode.Low,
	"medium":   qrcode.Medium,
	"quartile": qrcode.Medium,
	"high":     qrcode.Highest,
}

// wifiqrEscape escapes characters the WIFI: URI scheme treats specially.
func wifiqrEscape(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '\\', '"', ';', ':', ',':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func wifiqrEncode(ssid string, hidden bool, password string) string {
	return fmt.Sprintf("WIFI:S:%s;T:WPA;P:%s;H:%s;;",
		wifiqrEscape(ssid), wifiqrEscape(password), boolString(hidden))
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func cmdWifiQR(args []string) error {
	fs := flag.NewFlagSet("wifiqr", flag.ExitOnError)
	ssid := fs.String("ssid", "", "the wireless network SSID")
	hidden := fs.Bool("hidden", false, "set this if the SSID is hidden / not broadcast")
	errorCorrection := fs.String("error-correction", "medium", "QR code error correction: low, medium, quartile, high")
	out := fs.String("output", "", "path to write the QR code PNG to")
	overwrite := fs.Bool("overwrite", false, "overwrite an existing output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ssid == "" {
		return fmt.Errorf("wifiqr: --ssid is required")
	}
	if *out == "" {
		return fmt.Errorf("wifiqr: --output is required")
	}
	if filepath.Ext(*out) != ".png" {
		return fmt.Errorf("wifiqr: invalid output path %q, expected a *.png extension", *out)
	}

	level, ok := recoveryLevels[strings.ToLower(*errorCorrection)]
	if !ok {
		return fmt.Errorf("wifiqr: invalid error correction %q", *errorCorrection)
	}

	if _, err := os.Stat(*out); err == nil && !*overwrite {
		return fmt.Errorf("wifiqr: refusing to overwrite %q", *out)
	}
	if parent := filepath.Dir(*out); parent != "." {
		if err := os.MkdirAll(parent, 0o700); err != nil {
			return fmt.Errorf("wifiqr: create parent directory for %q: %w", *out, err)
		}
	}

	password, err := pwgen.Generate(wpaMaxPasswordLength, wpaPasswordCharsets, nil)
	if err != nil {
		return err
	}
	defer password.Close()

	encoded := wifiqrEncode(*ssid, *hidden, string(password.Bytes()))
	png, err := qrcode.Encode(encoded, level, qrImageSizePixels)
	if err != nil {
		return fmt.Errorf("wifiqr: render QR code: %w", err)
	}
	if err := os.WriteFile(*out, png, 0o600); err != nil {
		return fmt.Errorf("wifiqr: write %q: %w", *out, err)
	}

	return output.Deliver(password, output.Stdout, output.Auto)
}
