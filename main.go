package main

import "github.com/Yates-Labs/storyjourney/cmd"

func main() {
	cmd.Execute()
}
