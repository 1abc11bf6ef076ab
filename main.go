package main

import "github.com/genadygogunsky/scrapeNews/cmd"

func main() {
	cmd.Execute()
}
