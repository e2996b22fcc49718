package main

import "github.com/HaiFongPan/r2review/cmd"

func main() {
	cmd.Execute()
}
