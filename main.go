package main

import "github.com/ValentinKolb/tinyRedis/cmd"

func main() {
	cmd.Execute()
}
