package main

import "github.com/Ujjwols/tender-internproject/cmd"

func main() {
	cmd.Execute()
}
