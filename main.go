package main

import "github.com/they4kman/cleansweeper/cmd"

func main() {
	cmd.Execute()
}
