// Package cli is the interactive front end of credkeeper. It reads usernames
// and passwords from the terminal, calls the credential store and turns its
// errors into messages for the user. It holds no credential logic itself.
package cli
