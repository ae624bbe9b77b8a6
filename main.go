package main

import "students-api-go/cmd"

func main() {
	cmd.Execute()
}
