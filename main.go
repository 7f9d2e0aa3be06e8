package main

import "github.com/jsphweid/digiscore/cmd"

func main() {
	cmd.Execute()
}
