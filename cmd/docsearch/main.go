// Command docsearch drives the search coordinator from a terminal:
// search the corpus, fetch a document to disk, list or restore versions,
// and dump the taxonomy vocabularies. Configuration comes from
// DOCSEARCH_* environment variables (see docsearch.Config).
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	docsearch "github.com/docharbor/docsearch"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "docsearch: %v\n", err)
		os.Exit(1)
	}
}

func newCoordinator() (*docsearch.Coordinator, error) {
	cfg, err := docsearch.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return docsearch.NewFromConfig(cfg, docsearch.WithLogger(log)), nil
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "docsearch",
		Short:        "Document search and retrieval portal CLI",
		Long:         "docsearch queries the document portal backend: filtered search, content fetch, version history and taxonomy lookups.",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newSearchCmd(),
		newFetchCmd(),
		newVersionsCmd(),
		newRestoreCmd(),
		newTagsCmd(),
		newTypesCmd(),
	)
	return cmd
}

func newSearchCmd() *cobra.Command {
	var (
		typeID   string
		author   string
		keywords []string
		tagIDs   []int
		page     int
	)
	cmd := &cobra.Command{
		Use:   "search [name]",
		Short: "Search the document corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCoordinator()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			q := docsearch.Query{
				Name:     strings.Join(args, " "),
				TypeID:   typeID,
				Author:   author,
				Keywords: keywords,
				TagIDs:   tagIDs,
			}
			if _, err := c.Search(cmd.Context(), q); err != nil {
				return err
			}
			p := c.SetPage(page)
			for _, d := range p.Items {
				tags := make([]string, 0, len(d.Tags))
				for _, t := range d.Tags {
					tags = append(tags, t.Name)
				}
				fmt.Printf("%s\t%s\t%s\t%s\t[%s]\n",
					d.ID, d.DisplayName, d.TypeName, d.UploadedAt.Format(time.DateOnly), strings.Join(tags, ", "))
			}
			fmt.Printf("page %d/%d (%d documents)\n", p.Number, p.TotalPages, p.TotalItems)
			return nil
		},
	}
	cmd.Flags().StringVar(&typeID, "type", "", "Document type ID")
	cmd.Flags().StringVar(&author, "author", "", "Uploader identity")
	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "Keyword filter (repeatable)")
	cmd.Flags().IntSliceVar(&tagIDs, "tag", nil, "Tag ID filter (repeatable)")
	cmd.Flags().IntVar(&page, "page", 1, "Result page")
	return cmd
}

func newFetchCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "fetch <document-id>",
		Short: "Resolve and download a document's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCoordinator()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			docs, err := c.Search(cmd.Context(), docsearch.Query{Name: args[0]})
			if err != nil {
				return err
			}
			var doc *docsearch.Document
			for i := range docs {
				if docs[i].ID == args[0] || docs[i].DisplayName == args[0] {
					doc = &docs[i]
					break
				}
			}
			if doc == nil {
				return fmt.Errorf("document %q not found", args[0])
			}

			handle, err := c.OpenPreview(cmd.Context(), *doc)
			if err != nil {
				if nf, ok := docsearch.IsContentNotFound(err); ok {
					for _, a := range nf.Attempts {
						fmt.Fprintf(os.Stderr, "  tried %s -> %d %s\n", a.URL, a.Status, a.Reason)
					}
				}
				return err
			}
			defer c.ClosePreview()

			r, err := handle.Open()
			if err != nil {
				return err
			}
			if out == "" {
				out = doc.Record.FileName
			}
			if out == "" {
				out = doc.ID + ".pdf"
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			if _, err := io.Copy(f, r); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d bytes, %s, via %s)\n", out, handle.Size(), handle.ContentType(), handle.Source())
			return c.AwaitViewLogs(cmd.Context(), doc.ID)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (defaults to the stored filename)")
	return cmd
}

func newVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions <document-id>",
		Short: "List a document's archived versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCoordinator()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			versions, err := c.Versions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, v := range versions {
				fmt.Printf("%s\t%s\t%s\t%s\n", v.VersionID, v.Label, v.ArchivedAt.Format(time.RFC3339), v.ArchivedBy)
			}
			return nil
		},
	}
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <document-id> <version-id>",
		Short: "Restore an archived version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCoordinator()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			if err := c.RestoreVersion(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("restored %s to version %s\n", args[0], args[1])
			return nil
		},
	}
}

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the tag vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCoordinator()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			tags, err := c.Tags(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range tags {
				marker := ""
				if t.IsPredefined {
					marker = " (predefined)"
				}
				fmt.Printf("%d\t%s%s\n", t.ID, t.Name, marker)
			}
			return nil
		},
	}
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the document type taxonomy",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCoordinator()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			dts, err := c.DocumentTypes(cmd.Context())
			if err != nil {
				return err
			}
			for _, dt := range dts {
				fmt.Printf("%s\t%s\n", dt.ID, dt.Name)
			}
			return nil
		},
	}
}
