// Package shortcode produces random short codes for links.
package shortcode

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet is the set of characters a short code is drawn from.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultLength is used when a Generator is created with a non-positive length.
const DefaultLength = 6

// Generator draws fixed-length codes from Alphabet using a crypto-grade source.
// It never talks to storage: uniqueness is the caller's concern.
type Generator struct {
	length int
}

func NewGenerator(length int) *Generator {
	if length <= 0 {
		length = DefaultLength
	}

	return &Generator{length: length}
}

// Length reports the size of the codes produced by Generate.
func (g *Generator) Length() int {
	return g.length
}

func (g *Generator) Generate() (string, error) {
	const op = "shortcode.Generator.Generate"

	code, err := gonanoid.Generate(Alphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return code, nil
}

// Valid reports whether code could have been produced by a Generator of the given length.
func Valid(code string, length int) bool {
	if length <= 0 || len(code) != length {
		return false
	}

	for _, c := range code {
		if (c < '0' || c > '9') && (c < 'A' || c > 'Z') {
			return false
		}
	}

	return true
}
