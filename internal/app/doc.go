// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the two run modes: serving canvas sessions
// over socket.io, or driving a server with a scripted interaction. It is
// decoupled from any specific entrypoint like a CLI.
package app
