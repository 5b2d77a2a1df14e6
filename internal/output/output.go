// Package output delivers decrypted secret material to the user, either to
// stdout or to the system clipboard, without accidentally spraying binary
// data across a terminal.
package output

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/amaydixit11/pwm/pkg/secret"
)

// Method selects where decrypted output is delivered.
type Method int

const (
	Stdout Method = iota
	Clipboard
)

func (m Method) String() string {
	switch m {
	case Stdout:
		return "stdout"
	case Clipboard:
		return "clipboard"
	default:
		return "unknown"
	}
}

// ParseMethod parses a case-insensitive method name as used on the CLI.
func ParseMethod(s string) (Method, error) {
	switch strings.ToUpper(s) {
	case "STDOUT":
		return Stdout, nil
	case "CLIPBOARD":
		return Clipboard, nil
	default:
		return 0, fmt.Errorf("output: invalid method %q", s)
	}
}

// Encoding tells EncodeForDisplay how to interpret a secret's bytes before
// deciding whether it needs to be base64-encoded for a given sink.
type Encoding int

const (
	// Auto interprets the data as UTF-8 text if it validates as such, and
	// as binary otherwise.
	Auto Encoding = iota
	// Binary always treats the data as binary, regardless of its contents.
	Binary
)

// clipboardTimeout is how long delivered clipboard contents persist before
// being overwritten with an empty string.
const clipboardTimeout = 45 * time.Second

// EncodeForDisplay returns data re-encoded for a sink, following the same
// three-way rule as the original implementation: data that isn't binary (per
// encoding) is always passed through as-is; data that is binary passes
// through only if the sink supports binary, and is otherwise base64-encoded.
func EncodeForDisplay(data secret.Secret, encoding Encoding, sinkSupportsBinary bool) secret.Secret {
	isBinary := encoding == Binary || !utf8.Valid(data.Bytes())

	if !isBinary {
		return secret.From(data.Bytes())
	}
	if sinkSupportsBinary {
		return secret.From(data.Bytes())
	}
	return secret.From([]byte(base64.StdEncoding.EncodeToString(data.Bytes())))
}

// Deliver writes data to the given method's sink, interpreting it according
// to encoding. data is consumed (closed) by this call.
func Deliver(data secret.Secret, method Method, encoding Encoding) error {
	defer data.Close()
	switch method {
	case Stdout:
		return deliverStdout(data, encoding)
	case Clipboard:
		return deliverClipboard(data, encoding)
	default:
		return fmt.Errorf("output: invalid method %d", method)
	}
}

func deliverStdout(data secret.Secret, encoding Encoding) error {
	tty := term.IsTerminal(int(os.Stdout.Fd()))
	display := EncodeForDisplay(data, encoding, !tty)
	defer display.Close()

	if _, err := os.Stdout.Write(display.Bytes()); err != nil {
		return fmt.Errorf("output: write stdout: %w", err)
	}
	if tty {
		if _, err := os.Stdout.Write([]byte("\n")); err != nil {
			return fmt.Errorf("output: write stdout: %w", err)
		}
	}
	return nil
}

// deliverClipboard sets the clipboard, blocks for clipboardTimeout, and
// then clears it. It blocks rather than scheduling the clear asynchronously
// because pwm runs as a one-shot CLI command, not a background process that
// could outlive the scheduled callback.
func deliverClipboard(data secret.Secret, encoding Encoding) error {
	// The system clipboard only ever holds text, never arbitrary binary.
	display := EncodeForDisplay(data, encoding, false)
	defer display.Close()

	if err := clipboard.WriteAll(string(display.Bytes())); err != nil {
		return fmt.Errorf("output: set clipboard contents: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Copied stored password or key to clipboard. Will clear in %d seconds.\n", int(clipboardTimeout.Seconds()))
	time.Sleep(clipboardTimeout)

	if err := clipboard.WriteAll(""); err != nil {
		return fmt.Errorf("output: clear clipboard contents: %w", err)
	}
	return nil
}
