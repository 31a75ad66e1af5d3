// Package token encodes and decodes PASETO v4.local access and refresh tokens
// using a single symmetric key and strict validation semantics suitable for
// low-latency authentication paths.
package token
