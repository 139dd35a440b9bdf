package main

import "github.com/example/restique/cmd"

func main() {
	cmd.Execute()
}
