// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Rankctl administers a Quickly Rank database from the terminal.

It talks to the database directly, so it works while the server is down.
Database settings come from the same flags, environment and .env file as the
server.

Usage:

	rankctl [-d url] [-t type] [-env-file path] [-admin-salt salt] <command>

Commands:

	voters show [-all]       voters waiting for approval, or every voter
	voters approve <id>...   approve voters
	voters reject <id>...    delete voters and their ballots
	items show [-all]        undecided items, or every item
	items decide <id>...     mark items as decided now
	items delete <id>...     delete items and their votes
	results                  print the rounds, winner and second choice
	admin-key                print the X-Admin-Key value for the salt

All ids are validated before any of them is changed.
*/
package main
