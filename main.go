package main

import "github.com/efestolab/ade/cmd"

func main() {
	cmd.Execute()
}
