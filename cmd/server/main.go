// @title Gatherly API
// @version 1.0
// @description Event management backend: users, events, groups, invitations, RSVPs and comments.
// @BasePath /
// @securityDefinitions.apikey CookieAuth
// @in header
// @name access_token_cookie
package main

import (
	_ "gatherly/docs"

	"gatherly/cmd/server/cmd"
)

func main() {
	cmd.Execute()
}
