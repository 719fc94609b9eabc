package main

import "github.com/tanq16/nxsplit/cmd"

func main() {
	cmd.Execute()
}
