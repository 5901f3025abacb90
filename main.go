package main

import "github.com/theirongolddev/lifesim/cmd"

func main() {
	cmd.Execute()
}
