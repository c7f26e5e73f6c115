package main

import "github.com/vibast-solutions/ms-go-newsletter/cmd"

func main() {
	cmd.Execute()
}
