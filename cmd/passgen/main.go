// Command passgen prints random passwords.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vaultpass/passgen-go/internal/crypto"
)

// Config holds the parsed CLI flags.
type Config struct {
	crypto.Options
	Count int
	Seed  uint64
	Hash  bool
}

// ParseFlags registers and parses command-line flags on fs.
func ParseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Options: crypto.DefaultOptions()}

	fs.IntVar(&cfg.Length, "length", crypto.DefaultLength, "Password length")
	fs.IntVar(&cfg.Length, "l", crypto.DefaultLength, "Password length (shorthand)")

	fs.BoolVar(&cfg.RequireSymbol, "symbol", false, "Require at least one symbol")
	fs.BoolVar(&cfg.RequireSymbol, "s", false, "Require a symbol (shorthand)")

	fs.BoolVar(&cfg.RequireUppercase, "upper", false, "Require at least one uppercase letter")
	fs.BoolVar(&cfg.RequireUppercase, "u", false, "Require an uppercase letter (shorthand)")

	fs.StringVar(&cfg.IgnoredChars, "ignore", "", "Characters never to use")
	fs.StringVar(&cfg.AllowedChars, "allow", "", "Use only these characters")

	fs.IntVar(&cfg.Count, "count", 1, "Number of passwords to generate")
	fs.IntVar(&cfg.Count, "c", 1, "Number of passwords (shorthand)")

	fs.Uint64Var(&cfg.Seed, "seed", 0, "Seed for reproducible output (0 uses a cryptographic source)")
	fs.BoolVar(&cfg.Hash, "hash", false, "Read a secret from stdin and print its Argon2id hash for ADMIN_PASSWORD_HASH")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Count < 1 {
		return Config{}, errors.New("count must be at least 1")
	}
	return cfg, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("passgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg, err := ParseFlags(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "passgen:", err)
		return 2
	}

	if cfg.Hash {
		return hashSecret(stdin, stdout, stderr)
	}

	gen := crypto.NewGenerator(nil)
	if cfg.Seed != 0 {
		gen = crypto.NewGenerator(crypto.NewSeededSource(cfg.Seed))
	}

	w := bufio.NewWriter(stdout)
	defer w.Flush()
	for range cfg.Count {
		password, err := gen.Generate(cfg.Options)
		if err != nil {
			fmt.Fprintln(stderr, "passgen:", err)
			if crypto.IsConfigError(err) {
				return 2
			}
			return 1
		}
		fmt.Fprintln(w, password)
	}
	return 0
}

func hashSecret(stdin io.Reader, stdout, stderr io.Writer) int {
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintln(stderr, "passgen: reading secret:", err)
		return 1
	}
	secret := strings.TrimRight(line, "\r\n")
	if secret == "" {
		fmt.Fprintln(stderr, "passgen: empty secret")
		return 2
	}

	hash, err := crypto.HashSecret(secret)
	if err != nil {
		fmt.Fprintln(stderr, "passgen:", err)
		return 1
	}
	fmt.Fprintln(stdout, hash)
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
