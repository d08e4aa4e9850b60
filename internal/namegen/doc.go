// Package namegen produces default display names for peers that create an
// identity without choosing a username.
package namegen
