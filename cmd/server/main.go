package main

import "sajilokaam-api/app"

func main() {
	app.Run()
}
