package main

import (
	"github.com/BrickVest/BrickVest-Backend/api"
)

var envPath string = "."

func main() {
	server := api.NewServer(envPath)
	defer server.Stop()
	server.Start()
}
