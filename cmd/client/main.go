package main

import "pettrack/cmd/client/cmd"

func main() {
	cmd.Execute()
}
