// Package cli provides the interactive authgate command-line client.
//
// It keeps the refresh token in an in-memory cookie jar and the access
// token in memory, so a session lasts as long as the process. Commands:
//
//	signup   create an account and sign in
//	signin   sign in with email and password
//	refresh  rotate the token pair
//	me       show the signed-in profile
//	rename   change the display name
//	logout   clear the session
//	secrets  print two random secrets suitable for the server config
//	help     list commands
//	exit     leave the program
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
