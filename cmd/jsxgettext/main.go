package main

import "jsxgettext/internal/cli"

func main() {
	cli.Execute()
}
