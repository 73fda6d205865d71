package main

import (
	"threadchat/cmd/app"
)

// @title           threadchat API
// @version         1.0
// @description     Threaded, moderated messaging backend.
// @BasePath        /
func main() {
	app.GetApp().LetsGo()
}
