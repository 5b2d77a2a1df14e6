package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/amaydixit11/pwm/internal/output"
	"github.com/amaydixit11/pwm/pkg/pwgen"
	"github.com/amaydixit11/pwm/pkg/secret"
)

func cmdLs(args []string) error {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	repoFlag := fs.String("repository", "", "the repository working directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	prefix := fs.Arg(0)

	repo, err := openRepository(*repoFlag, false, "Master password: ")
	if err != nil {
		return err
	}
	defer repo.Close()

	paths, err := repo.List(prefix)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}

func cmdGet(args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	repoFlag := fs.String("repository", "", "the repository working directory")
	methodFlag := fs.String("output", "stdout", "where to deliver the decrypted value: stdout or clipboard")
	binary := fs.Bool("binary", false, "treat the stored value as binary data rather than auto-detecting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("get: expected exactly one path argument")
	}

	method, err := output.ParseMethod(*methodFlag)
	if err != nil {
		return err
	}
	encoding := output.Auto
	if *binary {
		encoding = output.Binary
	}

	repo, err := openRepository(*repoFlag, false, "Master password: ")
	if err != nil {
		return err
	}
	defer repo.Close()

	p, err := repo.Path(fs.Arg(0))
	if err != nil {
		return err
	}
	plaintext, err := repo.ReadDecrypt(p)
	if err != nil {
		return err
	}
	return output.Deliver(plaintext, method, encoding)
}

func cmdSet(args []string) error {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	repoFlag := fs.String("repository", "", "the repository working directory")
	keyFile := fs.String("key-file", "", "read the value from this file instead of prompting")
	multiline := fs.Bool("multiline", false, "read multiple lines of input data, until EOF")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("set: expected exactly one path argument")
	}
	if *keyFile != "" && *multiline {
		return fmt.Errorf("set: --key-file and --multiline are mutually exclusive")
	}

	repo, err := openRepository(*repoFlag, true, "Master password: ")
	if err != nil {
		return err
	}
	defer repo.Close()

	p, err := repo.Path(fs.Arg(0))
	if err != nil {
		return err
	}

	var plaintext secret.Secret
	switch {
	case *keyFile != "":
		plaintext, err = secret.LoadFile(*keyFile, 0)
	case *multiline:
		plaintext, err = multilinePasswordPrompt("Enter password data, until EOF is read:")
	default:
		plaintext, err = promptPassword(fmt.Sprintf("Value for %q: ", fs.Arg(0)))
	}
	if err != nil {
		return err
	}
	return repo.WriteEncrypt(p, plaintext)
}

func cmdRm(args []string) error {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	repoFlag := fs.String("repository", "", "the repository working directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("rm: expected exactly one path argument")
	}

	repo, err := openRepository(*repoFlag, false, "Master password: ")
	if err != nil {
		return err
	}
	defer repo.Close()

	p, err := repo.Path(fs.Arg(0))
	if err != nil {
		return err
	}
	return repo.Remove(p)
}

func cmdGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	length := fs.Int("length", pwgen.RecommendedMinimumLength, "generated password length")
	excludeLetters := fs.Bool("exclude-letters", false, "exclude letters from the generated password")
	excludeNumbers := fs.Bool("exclude-numbers", false, "exclude numbers from the generated password")
	includeSymbols := fs.Bool("include-symbols", false, "include symbols in the generated password")
	exclude := fs.String("custom-exclude", "", "additional characters to exclude")
	methodFlag := fs.String("output", "stdout", "where to deliver the generated password: stdout or clipboard")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var charsets []pwgen.CharacterSet
	if !*excludeLetters {
		charsets = append(charsets, pwgen.Letters)
	}
	if !*excludeNumbers {
		charsets = append(charsets, pwgen.Numbers)
	}
	if *includeSymbols {
		charsets = append(charsets, pwgen.Symbols)
	}

	method, err := output.ParseMethod(*methodFlag)
	if err != nil {
		return err
	}

	password, err := pwgen.Generate(*length, charsets, []rune(*exclude))
	if err != nil {
		return err
	}
	return output.Deliver(password, method, output.Auto)
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	repoFlag := fs.String("repository", "", "the repository working directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	repo, err := openRepository(*repoFlag, false, "Master password: ")
	if err != nil {
		return err
	}
	defer repo.Close()

	data, err := repo.Export()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func cmdImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	repoFlag := fs.String("repository", "", "the repository working directory")
	input := fs.String("input", "", "path to a JSON export file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("import: --input is required")
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		return fmt.Errorf("import: read %s: %w", *input, err)
	}

	repo, err := openRepository(*repoFlag, true, "Master password: ")
	if err != nil {
		return err
	}
	defer repo.Close()

	return repo.Import(data)
}
