package main

import "github.com/dotandev/granary/internal/cmd"

func main() {
	cmd.Execute()
}
