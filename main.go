// uniparq converts UniProtKB XML dumps into Parquet files.
package main

import "uniparq/cmd"

func main() {
	cmd.Execute()
}
