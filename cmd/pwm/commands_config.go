package main

import (
	"flag"
	"fmt"

	"github.com/amaydixit11/pwm/internal/config"
)

func cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	key := fs.String("key", "", "the configuration key to read")
	set := fs.String("set", "", "a new value to assign to --key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir, err := config.DefaultDir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	if *set != "" {
		switch *key {
		case "default_repository":
			cfg.DefaultRepository = *set
		default:
			return fmt.Errorf("config: unknown key %q", *key)
		}
		return config.Save(dir, cfg)
	}

	switch *key {
	case "", "default_repository":
		fmt.Println(cfg.DefaultRepository)
	default:
		return fmt.Errorf("config: unknown key %q", *key)
	}
	return nil
}

func cmdInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	repoFlag := fs.String("repository", "", "the repository working directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	repo, err := openRepository(*repoFlag, true, "Master password: ")
	if err != nil {
		return err
	}
	defer repo.Close()

	return repo.EnsureOpen()
}
