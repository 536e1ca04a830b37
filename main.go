package main

import "github.com/gaurav-prasanna/recipepipe/cmd"

func main() {
	cmd.Execute()
}
