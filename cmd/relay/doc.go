// Command relay runs the websocket pub/sub relay peers use to exchange
// identity broadcasts when they cannot reach each other directly.
package main
