// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(auth.AdminScope, salt)
	err := auth.ValidateAdminKey(auth.AdminScope, adminKey, salt)

The key is URL-safe base64 encoded without padding. There is a single admin
key per server, derived from AdminScope and the configured salt, so it never
needs to be stored. `rankctl admin-key` prints it.

# Voter Tokens

Voter tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateVoterToken()

Tokens are URL-safe base64 encoded. A voter receives one on registration and
sends it in the X-Voter-Token header to rank items and add new ones:

	token, err := auth.VoterToken(r.Header.Get("X-Voter-Token"))
*/
package auth
