/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
)

func printResults(results map[string]any, table func(any) ([]string, [][]string)) error {
	switch format {
	case "json":
		var v any = results
		if !allDevices {
			for _, r := range results {
				v = r
			}
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	case "table", "":
		for _, name := range sortedKeys(results) {
			if allDevices {
				fmt.Printf("%s:\n", name)
			}
			header, rows := table(results[name])
			printTable(header, rows)
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

func printTable(header []string, rows [][]string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}
