package main

import "github.com/ValentinKolb/kvprefs/cmd"

func main() {
	cmd.Execute()
}
