package main

import "turbo-ncu/internal/cli"

func main() {
	cli.Execute()
}
