package main

import "mashup/cmd"

func main() {
	cmd.Execute()
}
