package main

import "github.com/tasktray/tasktray/cmd"

func main() {
	cmd.Execute()
}
