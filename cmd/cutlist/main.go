package main

import "cutlist-editor/internal/cli"

func main() {
	cli.Execute()
}
