package main

import "github.com/hnakamura/bmorg/cmd/bmorg/cmd"

func main() {
	cmd.Execute()
}
