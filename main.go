package main

import "github.com/curatorbot/curator/cmd"

func main() {
	cmd.Execute()
}
