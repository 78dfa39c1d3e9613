package main

import "github.com/rezapratama/dialog2video/internal/cli"

func main() {
	cli.Main()
}
