package main

import "github.com/mbox-tools/mbox-to-corpus/cmd"

func main() {
	cmd.Execute()
}
