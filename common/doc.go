// Package common contains helpers shared by MySave and SignorToken contracts.
// Everything here is compiled into contract bytecode, so only the subset of
// Go supported by the neo-go compiler may be used.
package common
