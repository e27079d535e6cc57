// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package casing contains the identifier mangling helpers shared by the
// stub generators.
package casing

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Camel returns the CamelCased name mangled the same way the Go protobuf
// message generator mangles it, so references emitted here line up with the
// identifiers in the generated message code.
//
// If there is an interior underscore followed by a lower case letter, the
// underscore is dropped and the letter following it is converted to upper
// case. There is a remote possibility of this rewrite causing a name
// collision, but it is so remote we are prepared to pretend it does not
// exist: handling it correctly would require an exhaustive list of all
// mangled names in scope.
func Camel(s string) string {
	if s == "" {
		return ""
	}
	t := make([]byte, 0, 32)
	i := 0
	if s[0] == '_' {
		// Need a capital letter; drop the '_'.
		t = append(t, 'X')
		i++
	}
	// Invariant: if the next letter is lower case, it must be converted
	// to upper case.
	for ; i < len(s); i++ {
		c := s[i]
		if c == '.' && i+1 < len(s) && isASCIILower(s[i+1]) {
			continue // Skip the dot and capitalize what follows.
		}
		if c == '.' {
			t = append(t, '_') // Convert the dot to an underscore.
			continue
		}
		if c == '_' && (i == 0 || s[i-1] == '.') {
			// Convert initial '_' to ensure we start with a capital letter.
			// Do the same for '_' after '.' to match historic behavior.
			t = append(t, 'X')
			continue
		}
		if c == '_' && i+1 < len(s) && isASCIILower(s[i+1]) {
			continue // Skip the underscore in s.
		}
		if isASCIIDigit(c) {
			t = append(t, c)
			continue
		}
		// Assume we have a letter now - if not, it is a bogus identifier.
		// The next word is a sequence of characters that must start upper case.
		if isASCIILower(c) {
			c ^= ' ' // Make it a capital letter.
		}
		t = append(t, c) // Guaranteed not lower case.
		// Accept lower case sequence that follows.
		for i+1 < len(s) && isASCIILower(s[i+1]) {
			i++
			t = append(t, s[i])
		}
	}
	return string(t)
}

var titler = cases.Title(language.AmericanEnglish, cases.NoLower)

// Title upper-cases the first letter of every word in s without touching
// the rest, for use in human readable output.
func Title(s string) string {
	return titler.String(s)
}

func isASCIILower(c byte) bool {
	return 'a' <= c && c <= 'z'
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
