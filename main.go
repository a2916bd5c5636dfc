package main

import "github.com/kozaktomas/face-match/cmd"

func main() {
	cmd.Execute()
}
