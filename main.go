package main

import "github.com/OpenRouterTeam/spawn-sub007/cmd"

func main() {
	cmd.Execute()
}
