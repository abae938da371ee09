package main

import "github.com/example/rinkwatch/cmd"

func main() {
	cmd.Execute()
}
