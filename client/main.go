/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/sdcio/bigip-driver/client/cmd"

func main() {
	cmd.Execute()
}
