// Package auth provides the password authentication provider.
//
// Accounts live in a driven.UserStore and passwords are hashed with bcrypt.
// The signed-in user ID is written to the config store under auth.user_id,
// so a session survives restarts of the CLI.
package auth
