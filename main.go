package main

import "github.com/KaramelBytes/chunkplot/cmd"

func main() {
	cmd.Execute()
}
