package main

import "talenthub/internal/app/server"

func main() {
	server.Run()
}
