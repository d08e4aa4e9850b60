package namegen

import (
	"fmt"
	"math/rand/v2"
)

var adjectives = []string{
	"amber", "bold", "brisk", "calm", "clever", "crimson", "daring",
	"dusky", "eager", "fleet", "gentle", "hazel", "keen", "lively",
	"lucid", "mellow", "nimble", "quiet", "rustic", "silent", "sly",
	"solar", "swift", "vivid", "wandering", "witty",
}

var animals = []string{
	"badger", "bison", "crane", "falcon", "ferret", "fox", "heron",
	"ibex", "jackal", "lark", "lynx", "marten", "mole", "otter",
	"owl", "panther", "raven", "seal", "shrew", "sparrow", "stoat",
	"swan", "tern", "viper", "wolf", "wren",
}

// Generate returns a random adjective-animal name, e.g. "swift-otter".
// Uniqueness across peers is not attempted; the short discriminator on the
// identity record exists to disambiguate collisions.
func Generate() string {
	return fmt.Sprintf("%s-%s",
		adjectives[rand.IntN(len(adjectives))],
		animals[rand.IntN(len(animals))],
	)
}
