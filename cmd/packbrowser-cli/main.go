package main

import "packbrowser/cmd/packbrowser-cli/cmd"

func main() {
	cmd.Execute()
}
