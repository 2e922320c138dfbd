// Package main implements the cloudprep CLI tool.
// It prepares a Google Cloud project for deployment: APIs, org policies,
// and IAM grants.
package main

import "github.com/cloudprep/cloudprep/cmd/cloudprep/cmd"

func main() {
	cmd.Execute()
}
