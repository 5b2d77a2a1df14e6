// Command pwm is an encrypted password manager backed by a local,
// journaled repository.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "config":
		err = cmdConfig(args)
	case "init":
		err = cmdInit(args)
	case "addkey":
		err = cmdAddKey(args)
	case "rmkey":
		err = cmdRmKey(args)
	case "ls":
		err = cmdLs(args)
	case "get":
		err = cmdGet(args)
	case "set":
		err = cmdSet(args)
	case "rm":
		err = cmdRm(args)
	case "generate":
		err = cmdGenerate(args)
	case "export":
		err = cmdExport(args)
	case "import":
		err = cmdImport(args)
	case "wifiqr":
		err = cmdWifiQR(args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pwm - An encrypted password manager

Usage: pwm <command> [options]

Commands:
  config    Get or set a process-level configuration value
  init      Initialize a new repository
  addkey    Register an additional master password
  rmkey     Remove a registered master password
  ls        List stored paths
  get       Decrypt and output a stored value
  set       Encrypt and store a value
  rm        Remove a stored value
  generate  Generate a random password
  export    Export the repository's contents as JSON
  import    Import contents from a JSON export
  wifiqr    Generate a WiFi password and render it as a QR code
  help      Show this help`)
}
