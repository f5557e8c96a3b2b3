// Command librarian loads library records from a YAML seed file and prints listings, monthly
// reports and the recorded history of students and books.
//
//	librarian load --seed seed.yaml
//	librarian report --seed seed.yaml --month 2024-03
//	librarian history --seed seed.yaml --email a@x.com --journal postgres --dsn postgres://...
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
