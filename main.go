package main

import "github.com/fakeyudi/wheeltools/cmd"

func main() {
	cmd.Execute()
}
