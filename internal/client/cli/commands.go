package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophdocs/internal/client/docstore"
	"github.com/dmitrijs2005/gophdocs/internal/client/iterator"
	"github.com/dmitrijs2005/gophdocs/internal/client/models"
	"github.com/dmitrijs2005/gophdocs/internal/client/query"
	"github.com/dmitrijs2005/gophdocs/internal/common"
)

func newCollectionsCommand(a *App) *cobra.Command {
	var match string
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "List collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if match != "" && !doublestar.ValidatePattern(match) {
				return fmt.Errorf("invalid pattern %q", match)
			}

			cols, err := a.client.Collections(cmd.Context())
			if err != nil {
				return err
			}
			names := make([]string, 0, len(cols))
			for _, col := range cols {
				if match != "" {
					if ok, _ := doublestar.Match(match, col.Name()); !ok {
						continue
					}
				}
				names = append(names, col.Name())
			}
			return a.print(names)
		},
	}
	cmd.Flags().StringVar(&match, "match", "", "only list collections matching this glob")
	return cmd
}

func newGetCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Fetch a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.client.Collection(args[0]).GetByID(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return a.print(doc)
		},
	}
}

type queryFlags struct {
	filter string
	script string
	stored string
	args   string
	asOf   string
	cursor string
	limit  int
}

func (f *queryFlags) query() (query.Query, error) {
	switch {
	case f.script != "":
		return query.Script(f.script), nil
	case f.stored != "":
		var args any
		if f.args != "" {
			if err := json.Unmarshal([]byte(f.args), &args); err != nil {
				return nil, fmt.Errorf("--args: %w", err)
			}
		}
		return query.StoredQuery{Name: f.stored, Args: args}, nil
	case f.filter != "":
		return query.Filter(f.filter), nil
	default:
		return nil, nil
	}
}

func newQueryCommand(a *App) *cobra.Command {
	var f queryFlags
	cmd := &cobra.Command{
		Use:   "query <collection>",
		Short: "List the documents matching a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := f.query()
			if err != nil {
				return err
			}
			asOf, err := parseAsOf(f.asOf)
			if err != nil {
				return err
			}

			it, err := a.client.Collection(args[0]).Query(q, docstore.QueryOptions{
				ListOptions: docstore.ListOptions{Limit: f.limit, PerPage: a.config.PerPage, Cursor: f.cursor},
				AsOf:        asOf,
			})
			if err != nil {
				return err
			}
			docs, err := a.drain(cmd.Context(), args[0], it)
			if err != nil {
				return err
			}
			if err := a.print(docs); err != nil {
				return err
			}
			if f.limit > 0 && len(docs) == f.limit && it.Cursor() != "" {
				fmt.Fprintf(a.errOut, "more results: --cursor %s\n", it.Cursor())
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.filter, "filter", "", "short query expression")
	fl.StringVar(&f.script, "script", "", "Lua query script")
	fl.StringVar(&f.stored, "stored", "", "stored query name")
	fl.StringVar(&f.args, "args", "", "stored query arguments as JSON")
	fl.StringVar(&f.asOf, "as-of", "", `query the state at this time ("2006-01-02 15:04:05" UTC or RFC 3339)`)
	fl.StringVar(&f.cursor, "cursor", "", "resume a previous listing")
	fl.IntVar(&f.limit, "limit", 100, "maximum number of documents (0 for all)")
	cmd.MarkFlagsMutuallyExclusive("filter", "script", "stored")
	return cmd
}

func newVersionsCommand(a *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "versions <collection> <id>",
		Short: "List the past versions of a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := a.client.Collection(args[0]).GetVersions(args[1], docstore.ListOptions{
				Limit:   limit,
				PerPage: a.config.PerPage,
			})
			if err != nil {
				return err
			}
			docs, err := a.drain(cmd.Context(), args[0], it)
			if err != nil {
				return err
			}
			return a.print(docs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of versions (0 for all)")
	return cmd
}

// drain reads a listing to the end. An empty listing prints as [].
func (a *App) drain(ctx context.Context, collection string, it *iterator.Iterator[models.Document]) ([]models.Document, error) {
	docs := []models.Document{}
	for doc, err := range it.All(ctx) {
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	a.logger.Debug(ctx, "listing fetched", "collection", collection, "documents", len(docs), "pages", it.Pages())
	return docs, nil
}

func newInsertCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "insert <collection> <json|->",
		Short: "Insert a document, read from stdin with -",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := []byte(args[1])
			if args[1] == "-" {
				var err error
				if raw, err = io.ReadAll(a.in); err != nil {
					return err
				}
			}
			body, err := models.Decode(raw)
			if err != nil {
				return fmt.Errorf("%w: %v", common.ErrNotADocument, err)
			}

			id, err := a.client.Collection(args[0]).Insert(cmd.Context(), body)
			if err != nil {
				return err
			}
			return a.print(id)
		},
	}
}

func newSetCommand(a *App) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "set <collection> <id> <field> <value>",
		Short: "Set one field of a document",
		Long: `Fetch the document, set field to value and save it. Only the change is
sent unless --full is given. value is parsed as JSON and used as a plain
string when it is not valid JSON.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			col := a.client.Collection(args[0])
			doc, err := col.GetByID(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			if args[2] == common.FieldID {
				return fmt.Errorf("%s is reserved", common.FieldID)
			}
			doc[args[2]] = parseValue(args[3])
			if full {
				if err := col.Forget(cmd.Context(), args[1]); err != nil {
					return err
				}
			}

			id, err := col.Update(cmd.Context(), doc)
			if err != nil {
				return err
			}
			return a.print(id)
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "send the whole document instead of a patch")
	return cmd
}

func newBaselinesCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baselines",
		Short: "Manage the local baseline cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached baseline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.client.ClearBaselines(cmd.Context())
		},
	})
	return cmd
}

func newDeleteCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection> <id>...",
		Short: "Delete documents",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := make([]any, 0, len(args)-1)
			for _, id := range args[1:] {
				targets = append(targets, id)
			}
			return a.client.Collection(args[0]).Delete(cmd.Context(), targets...)
		},
	}
}

func newMapReduceCommand(a *App) *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "mapreduce <collection> <map.lua> <reduce.lua>",
		Short: "Run a map/reduce job",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			mapScript, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			reduceScript, err := os.ReadFile(args[2])
			if err != nil {
				return err
			}
			t, err := parseAsOf(asOf)
			if err != nil {
				return err
			}

			out, err := a.client.Collection(args[0]).MapReduce(cmd.Context(),
				query.Script(mapScript), query.Script(reduceScript), t)
			if err != nil {
				return err
			}
			return a.print(out)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "run against the state at this time")
	return cmd
}

func newAttachCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "attach <file>",
		Short: "Upload a file and print its reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			att, err := a.client.AddAttachment(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(map[string]any{"pointer": att.Pointer, "node": att.Node})
		},
	}
}

func newDownloadCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "download <collection> <id> <field> <path|s3://bucket/key>",
		Short: "Save the attachment held by a document field",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.client.Collection(args[0]).GetByID(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			att, ok := doc[args[2]].(*models.Attachment)
			if !ok {
				return fmt.Errorf("field %q holds no attachment", args[2])
			}
			return a.client.DownloadAttachment(cmd.Context(), att, args[3])
		},
	}
}

func parseValue(s string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return s
	}
	return v
}

func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(common.AsOfLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, errors.New(`--as-of: want "2006-01-02 15:04:05" or RFC 3339`)
	}
	return t, nil
}
