package main

import "xsscan/cmd"

func main() {
	cmd.Execute()
}
