package main

import "github.com/naka-gawa/github-dow/cmd"

func main() {
	cmd.Execute()
}
