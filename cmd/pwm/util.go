package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/amaydixit11/pwm/internal/config"
	"github.com/amaydixit11/pwm/internal/repository"
	"github.com/amaydixit11/pwm/pkg/secret"
)

// repositoryPath resolves the working directory to operate on: the
// explicit flag value if given, otherwise the configured default.
func repositoryPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	dir, err := config.DefaultDir()
	if err != nil {
		return "", err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return "", err
	}
	if cfg.DefaultRepository == "" {
		return "", fmt.Errorf("no repository specified and no default_repository configured (use --repository or 'pwm config')")
	}
	return cfg.DefaultRepository, nil
}

// promptPassword prompts on the controlling terminal, falling back to
// reading a single line from stdin when stdin isn't a terminal (e.g. in
// scripts or tests).
func promptPassword(prompt string) (secret.Secret, error) {
	fmt.Fprint(os.Stderr, prompt)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		data, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return secret.Secret{}, fmt.Errorf("read password: %w", err)
		}
		s := secret.From(data)
		for i := range data {
			data[i] = 0
		}
		return s, nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return secret.Secret{}, fmt.Errorf("read password: %w", err)
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return secret.From([]byte(line)), nil
}

// multilinePasswordPrompt prompts on stderr, then reads all of stdin until
// EOF, letting the caller paste or pipe in multi-line secret data.
func multilinePasswordPrompt(prompt string) (secret.Secret, error) {
	fmt.Fprintln(os.Stderr, prompt)
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return secret.Secret{}, fmt.Errorf("read multi-line input: %w", err)
	}
	s := secret.From(data)
	for i := range data {
		data[i] = 0
	}
	return s, nil
}

// passwordProvider returns a repository.PasswordProvider that prompts once,
// lazily, the first time the keystore is actually touched.
func passwordProvider(prompt string) repository.PasswordProvider {
	return func() (secret.Secret, error) {
		return promptPassword(prompt)
	}
}

func openRepository(repoFlag string, create bool, prompt string) (*repository.Repository, error) {
	path, err := repositoryPath(repoFlag)
	if err != nil {
		return nil, err
	}
	return repository.Open(path, create, passwordProvider(prompt))
}
