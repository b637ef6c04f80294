package main

import "github.com/KaramelBytes/cancerlens/cmd"

func main() {
	cmd.Execute()
}
