package crypto

import (
	"sync"
	"unicode/utf8"
)

const (
	digitChars     = "0123456789"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	symbolChars    = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

	DefaultLength = 8
	MaxLength     = 1_000_000_000
)

// Options configures the password generator.
type Options struct {
	Length           int
	RequireSymbol    bool
	RequireUppercase bool
	// IgnoredChars are removed from every character class.
	IgnoredChars string
	// AllowedChars, when set, is the entire sampling pool. Only the symbol
	// and uppercase classes used for guarantees are intersected with it.
	AllowedChars string
}

// DefaultOptions returns an 8 character password with no guarantees and no filtering.
func DefaultOptions() Options {
	return Options{Length: DefaultLength}
}

// MinLength is the shortest password that can hold every requested guarantee.
func (o Options) MinLength() int {
	return max(1, o.requiredCount())
}

func (o Options) requiredCount() int {
	n := 0
	if o.RequireSymbol {
		n++
	}
	if o.RequireUppercase {
		n++
	}
	return n
}

// Validate checks the options that do not depend on character filtering.
func Validate(opts Options) error {
	if opts.IgnoredChars != "" && opts.AllowedChars != "" {
		return &ConfigError{Kind: KindMutuallyExclusiveOptions}
	}
	if minLen := opts.MinLength(); opts.Length < minLen {
		return newConfigError(KindLengthTooSmall,
			"password length must be at least %d for the specified options", minLen)
	}
	if opts.Length > MaxLength {
		return newConfigError(KindLengthTooLarge, "password length must be at most %d", MaxLength)
	}
	return nil
}

// Generator produces passwords from an injected random source.
type Generator struct {
	src Source
}

var defaultGenerator = NewGenerator(nil)

// NewGenerator creates a Generator drawing from src. A nil src selects a
// process-wide ChaCha20 source.
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = defaultSource()
	}
	return &Generator{src: src}
}

var defaultSource = sync.OnceValue(mustCryptoSource)

// Generate creates a password with the default generator.
func Generate(opts Options) (string, error) {
	return defaultGenerator.Generate(opts)
}

// Generate creates a random password. On error the returned string is empty.
func (g *Generator) Generate(opts Options) (string, error) {
	cs, err := check(opts)
	if err != nil {
		return "", err
	}

	if cs.ascii() {
		out := fill(g.src, opts, toBytes(cs.pool), toBytes(cs.symbols), toBytes(cs.uppercase))
		return string(out), nil
	}
	out := fill(g.src, opts, cs.pool, cs.symbols, cs.uppercase)
	return string(out), nil
}

// Check reports every error Generate would return for opts without sampling.
func Check(opts Options) error {
	_, err := check(opts)
	return err
}

func check(opts Options) (charsets, error) {
	if err := Validate(opts); err != nil {
		return charsets{}, err
	}

	cs := buildCharsets(opts)
	if len(cs.pool) == 0 {
		return charsets{}, newConfigError(KindEmptyPool, "every character was excluded by ignored_chars")
	}
	if opts.RequireSymbol && len(cs.symbols) == 0 {
		return charsets{}, newConfigError(KindEmptyRequiredClass,
			"require_symbol was set, but the character set did not contain symbols")
	}
	if opts.RequireUppercase && len(cs.uppercase) == 0 {
		return charsets{}, newConfigError(KindEmptyRequiredClass,
			"require_uppercase was set, but the character set did not contain uppercase letters")
	}
	return cs, nil
}

// fill samples opts.Length characters from pool with replacement, then
// overwrites one distinct slot per requested guarantee.
func fill[T byte | rune](src Source, opts Options, pool, symbols, uppercase []T) []T {
	out := make([]T, opts.Length)
	for i := range out {
		out[i] = pool[src.IntN(len(pool))]
	}

	slots := guaranteeSlots(src, opts.Length, opts.requiredCount())
	next := 0
	if opts.RequireSymbol {
		out[slots[next]] = symbols[src.IntN(len(symbols))]
		next++
	}
	if opts.RequireUppercase {
		out[slots[next]] = uppercase[src.IntN(len(uppercase))]
	}
	return out
}

// guaranteeSlots picks n distinct positions in [0, length).
func guaranteeSlots(src Source, length, n int) []int {
	slots := make([]int, 0, n)
	for len(slots) < n {
		i := src.IntN(length - len(slots))
		// Map i onto the positions not taken yet; slots stays sorted.
		pos := len(slots)
		for j, s := range slots {
			if i >= s {
				i++
				continue
			}
			pos = j
			break
		}
		slots = append(slots, 0)
		copy(slots[pos+1:], slots[pos:])
		slots[pos] = i
	}
	return slots
}

type charsets struct {
	pool      []rune
	symbols   []rune
	uppercase []rune
}

func buildCharsets(opts Options) charsets {
	digits := []rune(digitChars)
	lowercase := []rune(lowercaseChars)
	uppercase := []rune(uppercaseChars)
	symbols := []rune(symbolChars)

	if opts.IgnoredChars != "" {
		ignored := runeSet(opts.IgnoredChars)
		notIgnored := func(r rune) bool { _, ok := ignored[r]; return !ok }
		digits = filterRunes(digits, notIgnored)
		lowercase = filterRunes(lowercase, notIgnored)
		uppercase = filterRunes(uppercase, notIgnored)
		symbols = filterRunes(symbols, notIgnored)
	}

	if opts.AllowedChars != "" {
		allowed := runeSet(opts.AllowedChars)
		isAllowed := func(r rune) bool { _, ok := allowed[r]; return ok }
		return charsets{
			pool:      uniqueRunes(opts.AllowedChars),
			symbols:   filterRunes(symbols, isAllowed),
			uppercase: filterRunes(uppercase, isAllowed),
		}
	}

	pool := make([]rune, 0, len(lowercase)+len(uppercase)+len(digits)+len(symbols))
	pool = append(pool, lowercase...)
	pool = append(pool, uppercase...)
	pool = append(pool, digits...)
	pool = append(pool, symbols...)
	return charsets{pool: pool, symbols: symbols, uppercase: uppercase}
}

// ascii reports whether every character fits in a single byte.
func (c charsets) ascii() bool {
	for _, r := range c.pool {
		if r >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

// uniqueRunes returns the distinct runes of s in order of first appearance.
func uniqueRunes(s string) []rune {
	seen := make(map[rune]struct{}, len(s))
	var out []rune
	for _, r := range s {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func filterRunes(rs []rune, keep func(rune) bool) []rune {
	out := rs[:0:0]
	for _, r := range rs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func toBytes(rs []rune) []byte {
	b := make([]byte, len(rs))
	for i, r := range rs {
		b[i] = byte(r)
	}
	return b
}
