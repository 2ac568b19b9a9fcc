package main

import "github.com/mq-soft-tech/comp2000-threadsafety/cmd"

func main() {
	cmd.Execute()
}
