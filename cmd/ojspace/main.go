package main

import "ojspace/cmd/ojspace/cmd"

func main() {
	cmd.Execute()
}
