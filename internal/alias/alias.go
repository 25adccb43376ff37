// Package alias generates display handles for posters who do not choose one.
package alias

import (
	"fmt"
	"math/rand/v2"
)

var adjectives = []string{
	"Mysterious", "Sneaky", "Silent", "Shadowy", "Cryptic",
	"Hidden", "Secret", "Anonymous", "Masked", "Veiled",
	"Covert", "Stealthy", "Unseen", "Invisible", "Phantom",
	"Ghostly", "Enigmatic", "Puzzling", "Curious", "Bizarre",
}

var nouns = []string{
	"Whisper", "Shadow", "Ghost", "Phantom", "Specter",
	"Ninja", "Agent", "Spy", "Raven", "Wolf",
	"Fox", "Owl", "Panther", "Tiger", "Eagle",
	"Hawk", "Falcon", "Dragon", "Phoenix", "Griffin",
}

// Generate returns a handle of the form AdjectiveNoun plus a three-digit
// number, e.g. "ShadowyRaven847".
func Generate() string {
	adjective := adjectives[rand.IntN(len(adjectives))]
	noun := nouns[rand.IntN(len(nouns))]
	return fmt.Sprintf("%s%s%03d", adjective, noun, rand.IntN(1000))
}
