package main

import "github.com/ValentinKolb/dComm/cmd"

func main() {
	cmd.Execute()
}
