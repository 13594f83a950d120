package main

import "github.com/niels/simple-webserver/internal/cmd"

func main() {
	cmd.Execute()
}
