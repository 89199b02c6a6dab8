package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/docstore/pkg/docstore"
	"github.com/arthur-debert/docstore/pkg/paths"
)

// document is a schemaless entity addressed by its "id" field.
type document map[string]interface{}

func (d document) ID() string {
	id, _ := d["id"].(string)
	return id
}

var namespacesCmd = &cobra.Command{
	Use:   "namespaces",
	Short: "List the namespaces present in the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := os.ReadDir(storePath.DocumentsRoot())
		if err != nil {
			return err
		}

		var names []string
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() {
				if paths.IsReservedNamespace(name) {
					continue
				}
				names = append(names, name)
			} else if strings.HasSuffix(name, paths.DocumentExt) {
				// Collection files count as namespaces too.
				names = append(names, strings.TrimSuffix(name, paths.DocumentExt)+" (collection)")
			}
		}
		sort.Strings(names)

		fmt.Println(formatHeader("namespaces"))
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list <namespace>",
	Short: "List document ids in a namespace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []docstore.Option
		if subfolder != "" {
			opts = append(opts, docstore.WithSubfolder(subfolder))
		}

		ids, err := store.ListIDs(args[0], opts...)
		if err != nil {
			return err
		}
		sort.Strings(ids)

		fmt.Println(formatHeader(args[0]))
		for _, id := range ids {
			fmt.Printf("  %s\n", id)
		}
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <namespace> <id>",
	Short: "Print one document as JSON",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := docstore.LoadByID[document](store, args[0], args[1])
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <namespace> <id> <json>",
	Short: "Save a document from a JSON object",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var doc document
		if err := json.Unmarshal([]byte(args[2]), &doc); err != nil {
			return fmt.Errorf("invalid JSON object: %w", err)
		}
		doc["id"] = args[1]
		return store.Save(args[0], doc)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <namespace> <id>",
	Short: "Delete one document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return store.DeleteByID(args[0], args[1])
	},
}

var blobCmd = &cobra.Command{
	Use:   "blob",
	Short: "Work with generic blobs under the data root",
}

var blobAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Copy a file into the blob store, printing its new id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := blobs.CopyFile(args[0])
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var blobCatCmd = &cobra.Command{
	Use:   "cat <id>",
	Short: "Write a blob's bytes to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := blobs.LoadData(args[0])
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var blobRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a blob",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return blobs.Delete(args[0])
	},
}

func init() {
	blobCmd.AddCommand(blobAddCmd)
	blobCmd.AddCommand(blobCatCmd)
	blobCmd.AddCommand(blobRmCmd)
}
