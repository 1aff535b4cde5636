package password

import (
	"errors"
	"strings"

	gopassword "github.com/sethvargo/go-password/password"
)

// Character pools without look-alikes (0/O, 1/l/I).
const (
	lowerPool = "abcdefghijkmnpqrstuvwxyz"
	upperPool = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digitPool = "23456789"
)

const (
	generatedLength = 8
	generatedDigits = 2
	maxAttempts     = 20
)

var errGenerate = errors.New("could not generate a password with every character class")

// Generate returns an 8 character password containing lower case letters,
// upper case letters and digits, no symbols and no look-alike characters.
func Generate() (string, error) {
	gen, err := gopassword.NewGenerator(&gopassword.GeneratorInput{
		LowerLetters: lowerPool,
		UpperLetters: upperPool,
		Digits:       digitPool,
	})
	if err != nil {
		return "", err
	}

	for i := 0; i < maxAttempts; i++ {
		pw, err := gen.Generate(generatedLength, generatedDigits, 0, false, true)
		if err != nil {
			return "", err
		}
		if strings.ContainsAny(pw, lowerPool) && strings.ContainsAny(pw, upperPool) {
			return pw, nil
		}
	}

	return "", errGenerate
}
