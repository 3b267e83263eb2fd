package main

import "github.com/phpswitch/phpswitch/src/cmd"

func main() {
	cmd.Execute()
}
