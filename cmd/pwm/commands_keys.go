package main

import "flag"

func cmdAddKey(args []string) error {
	fs := flag.NewFlagSet("addkey", flag.ExitOnError)
	repoFlag := fs.String("repository", "", "the repository working directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	repo, err := openRepository(*repoFlag, false, "Master password: ")
	if err != nil {
		return err
	}
	defer repo.Close()

	newPassword, err := promptPassword("Master password to add: ")
	if err != nil {
		return err
	}
	return repo.AddPasswordKey(newPassword)
}

func cmdRmKey(args []string) error {
	fs := flag.NewFlagSet("rmkey", flag.ExitOnError)
	repoFlag := fs.String("repository", "", "the repository working directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	repo, err := openRepository(*repoFlag, false, "Master password: ")
	if err != nil {
		return err
	}
	defer repo.Close()

	toRemove, err := promptPassword("Master password to remove: ")
	if err != nil {
		return err
	}
	return repo.RemovePasswordKey(toRemove)
}
