package main

import "github.com/mertbeyaz/battleship-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
