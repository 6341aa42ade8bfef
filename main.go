package main

import "drive-image-upload/cmd"

func main() {
	cmd.Execute()
}
