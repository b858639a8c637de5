// Package client provides the `kida-chatlog` command-line client.
//
// The CLI talks to the chat-log HTTP API to ingest lines and run activity
// queries from a terminal. It is primarily intended for developers and
// operators.
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. When using the standalone binary, it reads
// KIDA_HTTP and defaults to http://127.0.0.1:8080.
//
// Usage
//
//	kida-chatlog log --room lobby --user alice --message "hello" --timestamp 1718451045
//
//	kida-chatlog logs linecount --room lobby --user alice
//	kida-chatlog logs activity users --room lobby --today --filter 'count > 10'
//	kida-chatlog logs activity room --room lobby
//	kida-chatlog logs unique --room lobby
//	kida-chatlog logs seen --user alice
//
//	kida-chatlog rooms
package client
