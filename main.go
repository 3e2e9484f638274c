package main

import "github.com/Javier-varez/Postform/cmd"

func main() {
	cmd.Execute()
}
