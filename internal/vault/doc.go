// Package vault provides the encrypted local secret store.
//
// A vault persists string-keyed secrets to a single file, sealed with a key
// derived from a passphrase. It must be unlocked before secrets are
// accessible; locking wipes the decrypted material from memory. With
// autosave enabled every mutation is written through to disk.
package vault
