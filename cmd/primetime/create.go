// Create command for the primetime CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

var (
	createTitle string
	createBody  string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new draft content item",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := attachServices()
		if err != nil {
			fail(exitSysError, "create", err)
		}
		defer svc.Close()

		item := &types.ContentItem{
			Title:  createTitle,
			Body:   createBody,
			Status: types.StatusDraft,
		}
		id, err := svc.backend.Content().Create(item)
		if err != nil {
			fail(exitUserError, "create item", err)
		}

		return respond(item, func() {
			fmt.Printf("Created draft: %s\n", id)
		})
	},
}

func init() {
	createCmd.Flags().StringVar(&createTitle, "title", "", "content title (required)")
	createCmd.Flags().StringVar(&createBody, "body", "", "content body")
	createCmd.MarkFlagRequired("title")
}
